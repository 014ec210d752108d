package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/filter"
	"github.com/fxchen/autotransform/internal/core/input"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/internal/core/transformer"
	"github.com/fxchen/autotransform/pkg/executil"
)

// End-to-end pipeline over a real tree: discover files, keep Python sources,
// batch them together, and rewrite them in place.
func TestRunner_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("a.py", "foo = 1\nprint(foo)\n")
	write("b.py", "def foo():\n    return foo\n")
	write("c.txt", "foo\n")

	regex, err := transformer.NewRegexTransformer(`foo`, "bar")
	require.NoError(t, err)

	sch := &schema.Schema{
		Name:        "rename-foo",
		Input:       &input.DirectoryInput{Path: ".", Recursive: true},
		Filters:     []filter.Filter{&filter.ExtensionFilter{Extensions: []string{".py"}}},
		Batcher:     &batcher.SingleBatcher{Metadata: batcher.Metadata{Title: "rename foo to bar"}},
		Transformer: regex,
	}

	rt := pipeline.Runtime{Exec: &executil.RealExecutor{}, WorkDir: dir}
	newWorker := func(s *schema.Schema, b batcher.Batch) Worker {
		return NewLocalWorker(s, b, rt, nil, nil)
	}

	r := New(rt, newWorker,
		WithPollInterval(time.Millisecond),
		WithTimeout(30*time.Second),
	)

	result, err := r.Run(context.Background(), sch)
	require.NoError(t, err)
	require.Len(t, result.Results, 1, "single batcher yields one batch")
	assert.Equal(t, OutcomeSuccess, result.Results[0].Outcome)
	assert.Len(t, result.Results[0].Batch.Items, 2, "only the python files are batched")
	assert.False(t, result.Failed())

	read := func(name string) string {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(got)
	}
	assert.Equal(t, "bar = 1\nprint(bar)\n", read("a.py"))
	assert.Equal(t, "def bar():\n    return bar\n", read("b.py"))
	assert.Equal(t, "foo\n", read("c.txt"), "filtered-out files are never touched")
}
