// Package repo is the git boundary: branch lifecycle, staging, commits, and
// pushes for submitted changes. All operations shell out to the git binary.
package repo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fxchen/autotransform/pkg/executil"
)

// BranchPrefix namespaces every branch this tool creates, so open changes
// can be found again by listing branches with this prefix.
const BranchPrefix = "autotransform/"

// CommitPrefix marks every commit this tool creates.
const CommitPrefix = "[autotransform]"

// Repo executes git operations against one working tree.
type Repo struct {
	gitPath string
	dir     string
	base    string
	exec    executil.Executor
}

// New creates a repo bound to a working tree. gitPath is the git binary
// ("git" resolves via PATH); base is the branch runs start from and rewind
// back to.
func New(gitPath, dir, base string, exec executil.Executor) *Repo {
	if gitPath == "" {
		gitPath = "git"
	}
	return &Repo{gitPath: gitPath, dir: dir, base: base, exec: exec}
}

// Dir returns the working-tree root.
func (r *Repo) Dir() string { return r.dir }

// BaseBranch returns the branch runs start from.
func (r *Repo) BaseBranch() string { return r.base }

// BranchName derives the deterministic branch name for a batch: the tool
// prefix, the schema name, and the slugged batch title.
func BranchName(schemaName, title string) string {
	return BranchPrefix + slug(schemaName) + "/" + slug(title)
}

// slug lowercases and maps anything outside [a-z0-9._] to underscores, then
// collapses runs. Chunk markers like "[2/5]" become "2_5".
func slug(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, c := range strings.ToLower(s) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.':
			b.WriteRune(c)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// Branch returns the current branch name, or the short commit SHA when HEAD
// is detached.
func (r *Repo) Branch(ctx context.Context) (string, error) {
	out, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("git branch: %w", err)
	}

	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	out, err = r.exec.RunDir(ctx, r.dir, r.gitPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) == 0, nil
}

// ChangedFiles lists paths with uncommitted modifications, relative to the
// working-tree root. Untracked files are included.
func (r *Repo) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// Renames show as "old -> new"; the new path is the changed one.
		if _, after, ok := strings.Cut(path, " -> "); ok {
			path = after
		}
		files = append(files, path)
	}
	return files, nil
}

// CreateBranch creates and checks out a branch at the current HEAD.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "checkout", "-b", name); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return nil
}

// Commit stages everything and commits with the tool's message prefix.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "add", "--all"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	msg := CommitPrefix + " " + message
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "commit", "--message", msg); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// Push force-pushes the named branch to origin. Force is required because a
// rerun of the same schema regenerates the branch from scratch.
func (r *Repo) Push(ctx context.Context, branch string) error {
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "push", "--force", "--set-upstream", "origin", branch); err != nil {
		return fmt.Errorf("push %s: %w", branch, err)
	}
	return nil
}

// Isolate materializes a private working tree of the base branch under a
// temp dir, via git worktree. Each batch transforms its own isolated tree,
// so concurrent batches never observe each other's edits. The returned
// cleanup detaches and removes the tree; it must run even on failure paths.
func (r *Repo) Isolate(ctx context.Context) (*Repo, func(), error) {
	dir, err := os.MkdirTemp("", "autotransform-tree-")
	if err != nil {
		return nil, nil, fmt.Errorf("isolate tree: %w", err)
	}

	// Detached HEAD so the base branch stays checked out in the main tree.
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "worktree", "add", "--detach", dir, r.base); err != nil {
		_ = os.RemoveAll(dir)
		return nil, nil, fmt.Errorf("isolate tree: %w", err)
	}

	iso := &Repo{gitPath: r.gitPath, dir: dir, base: r.base, exec: r.exec}
	cleanup := func() {
		// Cleanup outlives the batch's context; a killed batch still
		// releases its tree.
		_, _ = r.exec.RunDir(context.Background(), r.dir, r.gitPath, "worktree", "remove", "--force", dir)
		_ = os.RemoveAll(dir)
	}
	return iso, cleanup, nil
}

// Pull fetches and merges the base branch.
func (r *Repo) Pull(ctx context.Context) error {
	if _, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "pull"); err != nil {
		return fmt.Errorf("git pull: %w", err)
	}
	return nil
}

// RemoteURL returns the origin remote URL.
func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.exec.RunDir(ctx, r.dir, r.gitPath, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("get remote url: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
