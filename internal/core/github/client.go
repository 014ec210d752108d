// Package github is the hosting boundary. Every operation shells out to the
// gh CLI, which owns authentication and API plumbing.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/repo"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/pkg/executil"
)

// schemaTrailer marks the schema name in a pull request body so the change
// can be attributed back to its schema when listed later.
const schemaTrailer = "Managed-Schema:"

// Client talks to one GitHub repository through the gh CLI.
type Client struct {
	// repo is "owner/name".
	repo string
	// base is the branch pull requests target.
	base string
	// workflow, when set, is the workflow file rerun requests dispatch.
	workflow string
	exec     executil.Executor
	events   events.Handler
}

// NewClient creates a client for one repository. workflow may be empty, in
// which case rerun requests fall back to a comment.
func NewClient(repository, base, workflow string, exec executil.Executor, handler events.Handler) *Client {
	if handler == nil {
		handler = events.NopHandler{}
	}
	return &Client{repo: repository, base: base, workflow: workflow, exec: exec, events: handler}
}

// Repo returns the "owner/name" the client is bound to.
func (c *Client) Repo() string { return c.repo }

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	events.Verbose(c.events, "running gh", map[string]any{"args": strings.Join(args, " ")})
	stdout, stderr, err := c.exec.Output(ctx, "", "gh", args...)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg != "" {
			return stdout, fmt.Errorf("gh %s: %s: %w", args[0], msg, err)
		}
		return stdout, fmt.Errorf("gh %s: %w", args[0], err)
	}
	return stdout, nil
}

// prView is the gh pr view/list JSON shape.
type prView struct {
	Number      int       `json:"number"`
	State       string    `json:"state"`
	HeadRefName string    `json:"headRefName"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p prView) toChange() change.Change {
	return change.Change{
		ID:         p.URL,
		Number:     p.Number,
		Branch:     p.HeadRefName,
		SchemaName: parseSchemaTrailer(p.Body),
		State:      change.ParseState(p.State),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func parseSchemaTrailer(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), schemaTrailer); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Submit opens a pull request for a pushed branch. Implements the runner's
// submitter.
func (c *Client) Submit(ctx context.Context, sch *schema.Schema, b batcher.Batch, branch string) (change.Change, error) {
	body := buildBody(sch, b)

	args := []string{
		"pr", "create",
		"--repo", c.repo,
		"--base", c.base,
		"--head", branch,
		"--title", b.Metadata.Title,
		"--body", body,
	}
	for _, label := range sch.Config.Labels {
		args = append(args, "--label", label)
	}
	for _, owner := range sch.Config.Owners {
		args = append(args, "--reviewer", owner)
	}

	if _, err := c.run(ctx, args...); err != nil {
		return change.Change{}, fmt.Errorf("create pull request: %w", err)
	}
	return c.GetPullRequest(ctx, branch)
}

// buildBody renders the pull request body from batch metadata plus the
// schema attribution trailer.
func buildBody(sch *schema.Schema, b batcher.Batch) string {
	var sb strings.Builder
	if b.Metadata.Summary != "" {
		sb.WriteString(b.Metadata.Summary)
		sb.WriteString("\n\n")
	}
	if b.Metadata.Tests != "" {
		sb.WriteString("## Tests\n\n")
		sb.WriteString(b.Metadata.Tests)
		sb.WriteString("\n\n")
	}
	sb.WriteString(schemaTrailer)
	sb.WriteString(" ")
	sb.WriteString(sch.Name)
	return sb.String()
}

// GetPullRequest fetches the pull request for a head branch.
func (c *Client) GetPullRequest(ctx context.Context, branch string) (change.Change, error) {
	out, err := c.run(ctx, "pr", "view", branch,
		"--repo", c.repo,
		"--json", "number,state,headRefName,body,url,createdAt,updatedAt")
	if err != nil {
		return change.Change{}, err
	}

	var p prView
	if err := json.Unmarshal(out, &p); err != nil {
		return change.Change{}, fmt.Errorf("parse pull request: %w", err)
	}
	return p.toChange(), nil
}

// ListOpenChanges lists open pull requests whose head branch carries the
// tool's branch prefix, paging until a short page. Only changes this tool
// created are ever managed. With a base branch configured, the listing is
// narrowed to pull requests targeting it.
func (c *Client) ListOpenChanges(ctx context.Context) ([]change.Change, error) {
	const perPage = 100

	var changes []change.Change
	for page := 1; ; page++ {
		query := fmt.Sprintf("repos/%s/pulls?state=open&per_page=%d&page=%d", c.repo, perPage, page)
		if c.base != "" {
			query += "&base=" + url.QueryEscape(c.base)
		}
		out, err := c.run(ctx, "api", query)
		if err != nil {
			return nil, fmt.Errorf("list pull requests: %w", err)
		}

		var prs []restPull
		if err := json.Unmarshal(out, &prs); err != nil {
			return nil, fmt.Errorf("parse pull request list: %w", err)
		}

		for _, p := range prs {
			if !strings.HasPrefix(p.Head.Ref, repo.BranchPrefix) {
				continue
			}
			changes = append(changes, p.toChange())
		}

		if len(prs) < perPage {
			return changes, nil
		}
	}
}

// restPull is the REST list shape returned by gh api.
type restPull struct {
	Number int    `json:"number"`
	State  string `json:"state"`
	Body   string `json:"body"`
	URL    string `json:"html_url"`
	Head   struct {
		Ref string `json:"ref"`
	} `json:"head"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p restPull) toChange() change.Change {
	return change.Change{
		ID:         p.URL,
		Number:     p.Number,
		Branch:     p.Head.Ref,
		SchemaName: parseSchemaTrailer(p.Body),
		State:      change.ParseState(p.State),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// RefreshState re-reads a change's lifecycle state. A failed refresh maps
// to unknown rather than an error so one flaky lookup never aborts a
// management cycle.
func (c *Client) RefreshState(ctx context.Context, ch change.Change) change.State {
	out, err := c.run(ctx, "pr", "view", strconv.Itoa(ch.Number),
		"--repo", c.repo, "--json", "state")
	if err != nil {
		events.Warn(c.events, "state refresh failed", map[string]any{
			"change": ch.ID,
			"error":  err.Error(),
		})
		return change.StateUnknown
	}

	var p struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(out, &p); err != nil {
		return change.StateUnknown
	}
	return change.ParseState(p.State)
}

// Merge merges the pull request. Part of the step actor surface.
func (c *Client) Merge(ctx context.Context, ch change.Change) error {
	_, err := c.run(ctx, "pr", "merge", strconv.Itoa(ch.Number),
		"--repo", c.repo, "--merge", "--delete-branch")
	return err
}

// Abandon closes the pull request and deletes its branch.
func (c *Client) Abandon(ctx context.Context, ch change.Change) error {
	_, err := c.run(ctx, "pr", "close", strconv.Itoa(ch.Number),
		"--repo", c.repo, "--delete-branch")
	return err
}

// Comment posts a comment on the pull request.
func (c *Client) Comment(ctx context.Context, ch change.Change, body string) error {
	_, err := c.run(ctx, "pr", "comment", strconv.Itoa(ch.Number),
		"--repo", c.repo, "--body", body)
	return err
}

// Rerun requests that the change's schema run again. With a workflow
// configured this dispatches it with the schema name as input; otherwise a
// marker comment is left for external automation to pick up.
func (c *Client) Rerun(ctx context.Context, ch change.Change) error {
	if c.workflow == "" {
		return c.Comment(ctx, ch, "autotransform rerun requested")
	}
	_, err := c.DispatchWorkflow(ctx, c.workflow, map[string]string{"schema": ch.SchemaName})
	return err
}

// DispatchWorkflow triggers a workflow on the base branch and returns a
// best-guess URL for the spawned run. Dispatch gives no handle back, so
// after a short settle the most recent run of the workflow is taken as the
// spawned one. An empty URL with a warning means the dispatch succeeded but
// the run could not be located.
func (c *Client) DispatchWorkflow(ctx context.Context, workflow string, inputs map[string]string) (string, error) {
	args := []string{"workflow", "run", workflow, "--repo", c.repo, "--ref", c.base}
	for k, v := range inputs {
		args = append(args, "--field", k+"="+v)
	}
	if _, err := c.run(ctx, args...); err != nil {
		return "", fmt.Errorf("dispatch workflow %s: %w", workflow, err)
	}

	c.events.Handle(events.Event{
		Type:    events.TypeRemoteRun,
		Message: "dispatched workflow",
		Fields: map[string]any{
			"workflow": workflow,
			"repo":     c.repo,
		},
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(2 * time.Second):
	}

	out, err := c.run(ctx, "run", "list",
		"--repo", c.repo, "--workflow", workflow, "--limit", "1", "--json", "url")
	if err == nil {
		var runs []struct {
			URL string `json:"url"`
		}
		if json.Unmarshal(out, &runs) == nil && len(runs) > 0 {
			return runs[0].URL, nil
		}
	}

	events.Warn(c.events, "could not locate dispatched workflow run", map[string]any{
		"workflow": workflow,
	})
	return "", nil
}

// Gist is an uploaded snippet collection, keyed by filename.
type Gist struct {
	Description string
	Files       map[string]string
}

// CreateGist uploads files as a gist and returns its URL. Gists are secret
// unless public is set. The gh CLI only takes file arguments, so contents go
// through temp files named so the gist keeps the intended filenames.
func (c *Client) CreateGist(ctx context.Context, description string, files map[string]string, public bool) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("create gist: no files")
	}

	dir, err := os.MkdirTemp("", "autotransform-gist-")
	if err != nil {
		return "", fmt.Errorf("create gist: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{"gist", "create"}
	for _, filename := range slices.Sorted(maps.Keys(files)) {
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, []byte(files[filename]), 0o600); err != nil {
			return "", fmt.Errorf("create gist: %w", err)
		}
		args = append(args, path)
	}
	args = append(args, "--desc", description)
	if public {
		args = append(args, "--public")
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("create gist: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GetGist fetches a gist's description and file contents by ID.
func (c *Client) GetGist(ctx context.Context, id string) (Gist, error) {
	out, err := c.run(ctx, "api", "gists/"+id)
	if err != nil {
		return Gist{}, fmt.Errorf("get gist %s: %w", id, err)
	}

	var raw struct {
		Description string `json:"description"`
		Files       map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		return Gist{}, fmt.Errorf("parse gist %s: %w", id, err)
	}

	g := Gist{Description: raw.Description, Files: make(map[string]string, len(raw.Files))}
	for name, f := range raw.Files {
		g.Files[name] = f.Content
	}
	return g, nil
}
