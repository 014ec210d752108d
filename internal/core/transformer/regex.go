package transformer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/pipeline"
)

// RegexTransformer replaces every match of a pattern in each batch item's
// file. A run where no file matched is a clean no-op, reported through
// Result.Changed so the runner can skip submission.
type RegexTransformer struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`

	re *regexp.Regexp
}

// NewRegexTransformer compiles the pattern and returns the transformer.
func NewRegexTransformer(pattern, replacement string) (*RegexTransformer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex transformer pattern %q: %w", pattern, err)
	}
	return &RegexTransformer{Pattern: pattern, Replacement: replacement, re: re}, nil
}

// Name returns the registered variant name.
func (t *RegexTransformer) Name() string { return NameRegex }

// Transform rewrites each item's file in place, preserving the batch's item
// order since replacements are order-sensitive within a file.
func (t *RegexTransformer) Transform(ctx context.Context, rt pipeline.Runtime, b batcher.Batch) (Result, error) {
	var res Result
	for _, it := range b.Items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := it.Path()
		// Tree-relative keys resolve against the batch's working tree.
		if !filepath.IsAbs(path) && rt.WorkDir != "" {
			path = filepath.Join(rt.WorkDir, path)
		}

		changed, err := t.replaceFile(path)
		if err != nil {
			return res, err
		}
		if changed {
			res.Changed = true
			res.ChangedFiles++
		}
	}

	events.Debug(rt.Handler(), "regex transform complete", map[string]any{
		"title":         b.Metadata.Title,
		"changed_files": res.ChangedFiles,
	})
	return res, nil
}

func (t *RegexTransformer) replaceFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	replaced := t.re.ReplaceAll(content, []byte(t.Replacement))
	if bytes.Equal(content, replaced) {
		return false, nil
	}

	if err := os.WriteFile(path, replaced, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
