package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
	"github.com/fxchen/autotransform/pkg/executil"
)

func seedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := []string{
		"main.go",
		"readme.md",
		filepath.Join("pkg", "a.go"),
		filepath.Join("pkg", "nested", "b.go"),
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return dir
}

func keys(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func TestDirectoryInput(t *testing.T) {
	ctx := context.Background()

	t.Run("non-recursive lists top level files", func(t *testing.T) {
		dir := seedTree(t)
		in := &DirectoryInput{Path: dir}

		items, err := in.Items(ctx, pipeline.Runtime{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "main.go"),
			filepath.Join(dir, "readme.md"),
		}, keys(items))
	})

	t.Run("recursive walks the whole tree", func(t *testing.T) {
		dir := seedTree(t)
		in := &DirectoryInput{Path: dir, Recursive: true}

		items, err := in.Items(ctx, pipeline.Runtime{})
		require.NoError(t, err)
		assert.Len(t, items, 4)
	})

	t.Run("patterns restrict matches", func(t *testing.T) {
		dir := seedTree(t)
		in := &DirectoryInput{Path: dir, Recursive: true, Patterns: []string{"**/*.go", "*.go"}}

		items, err := in.Items(ctx, pipeline.Runtime{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "main.go"),
			filepath.Join(dir, "pkg", "a.go"),
			filepath.Join(dir, "pkg", "nested", "b.go"),
		}, keys(items))
	})

	t.Run("items are file items", func(t *testing.T) {
		dir := seedTree(t)
		in := &DirectoryInput{Path: dir}

		items, err := in.Items(ctx, pipeline.Runtime{})
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, item.NameFile, items[0].Name())
	})

	t.Run("relative path resolves against the work dir with relative keys", func(t *testing.T) {
		dir := seedTree(t)
		in := &DirectoryInput{Path: "pkg"}

		items, err := in.Items(ctx, pipeline.Runtime{WorkDir: dir})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join("pkg", "a.go")}, keys(items))
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		in := &DirectoryInput{Path: filepath.Join(t.TempDir(), "absent")}
		_, err := in.Items(ctx, pipeline.Runtime{})
		require.Error(t, err)
	})
}

func TestScriptInput(t *testing.T) {
	ctx := context.Background()
	rt := pipeline.Runtime{Exec: &executil.RealExecutor{}}

	t.Run("decodes item bundles from stdout", func(t *testing.T) {
		payload := `[{"name":"file","params":{"key":"a.go"}},{"name":"generic","params":{"key":"k1"}}]`
		in := &ScriptInput{Script: pipeline.Script{
			Command: []string{"sh", "-c", "printf '%s' '" + payload + "'"},
		}}

		items, err := in.Items(ctx, rt)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "a.go", items[0].Key)
		assert.Equal(t, item.NameFile, items[0].Name())
		assert.Equal(t, item.NameGeneric, items[1].Name())
	})

	t.Run("reads the result file when referenced", func(t *testing.T) {
		payload := `[{"name":"file","params":{"key":"b.go"}}]`
		in := &ScriptInput{Script: pipeline.Script{
			Command: []string{"sh", "-c", "printf '%s' '" + payload + "' > {{ .ResultFile }}; echo noise"},
		}}

		items, err := in.Items(ctx, rt)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "b.go", items[0].Key)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		in := &ScriptInput{Script: pipeline.Script{
			Command: []string{"sh", "-c", "printf 'not json'"},
		}}

		_, err := in.Items(ctx, rt)
		require.Error(t, err)
	})

	t.Run("nonzero exit is an error", func(t *testing.T) {
		in := &ScriptInput{Script: pipeline.Script{Command: []string{"sh", "-c", "exit 1"}}}
		_, err := in.Items(ctx, rt)
		require.Error(t, err)
	})
}

func TestFactory_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"directory", &DirectoryInput{Path: "src", Recursive: true, Patterns: []string{"**/*.py"}}},
		{"script", &ScriptInput{Script: pipeline.Script{Command: []string{"sh", "-c", "ls"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := registry.Encode(tt.input)
			require.NoError(t, err)

			decoded, err := Factory.Get(b)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestFactory_Validation(t *testing.T) {
	_, err := Factory.Get(registry.Bundle{Name: NameDirectory, Params: []byte(`{}`)})
	assert.Error(t, err, "path is required")
}

func TestFactory_Complete(t *testing.T) {
	assert.NoError(t, Factory.Validate(Names))
}
