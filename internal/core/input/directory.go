package input

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
)

// DirectoryInput discovers files under a path. The walk is lexical, so the
// resulting item order is stable for a fixed tree. A relative Path yields
// tree-relative item keys, which workers resolve against their own working
// tree; an absolute Path yields absolute keys.
type DirectoryInput struct {
	Path string `json:"path"`
	// Recursive controls whether subdirectories are descended into.
	Recursive bool `json:"recursive,omitempty"`
	// Patterns are doublestar globs matched against the path relative to
	// Path; when set, only matching files become items.
	Patterns []string `json:"patterns,omitempty"`
}

// Name returns the registered variant name.
func (d *DirectoryInput) Name() string { return NameDirectory }

// Items walks the directory and returns one file item per discovered file.
func (d *DirectoryInput) Items(ctx context.Context, rt pipeline.Runtime) ([]item.Item, error) {
	root := d.Path
	if !filepath.IsAbs(root) && rt.WorkDir != "" {
		root = filepath.Join(rt.WorkDir, root)
	}

	var items []item.Item
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if entry.IsDir() {
			if !d.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		match, err := d.matches(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if match {
			// The key keeps the configured path prefix, not the resolved
			// root, so keys stay portable across working-tree copies.
			items = append(items, item.NewFile(filepath.Join(d.Path, rel)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	events.Debug(rt.Handler(), "directory input discovered items", map[string]any{
		"path":  root,
		"count": len(items),
	})
	return items, nil
}

func (d *DirectoryInput) matches(rel string) (bool, error) {
	if len(d.Patterns) == 0 {
		return true, nil
	}
	for _, pattern := range d.Patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
