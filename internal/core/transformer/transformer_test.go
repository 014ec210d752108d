package transformer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
	"github.com/fxchen/autotransform/pkg/executil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegexTransformer(t *testing.T) {
	t.Run("invalid pattern fails at construction", func(t *testing.T) {
		_, err := NewRegexTransformer("(", "x")
		require.Error(t, err)
	})

	t.Run("replaces matches in every item", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.go", "call oldName()\ncall oldName()\n")
		b := writeFile(t, dir, "b.go", "nothing here\n")

		tr, err := NewRegexTransformer(`oldName`, "newName")
		require.NoError(t, err)

		batch := batcher.Batch{Items: []item.Item{item.NewFile(a), item.NewFile(b)}}
		res, err := tr.Transform(context.Background(), pipeline.Runtime{}, batch)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, 1, res.ChangedFiles)

		got, err := os.ReadFile(a)
		require.NoError(t, err)
		assert.Equal(t, "call newName()\ncall newName()\n", string(got))

		untouched, err := os.ReadFile(b)
		require.NoError(t, err)
		assert.Equal(t, "nothing here\n", string(untouched))
	})

	t.Run("no matches is a clean no-op", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.go", "nothing\n")

		tr, err := NewRegexTransformer(`absent`, "x")
		require.NoError(t, err)

		res, err := tr.Transform(context.Background(), pipeline.Runtime{}, batcher.Batch{
			Items: []item.Item{item.NewFile(a)},
		})
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Zero(t, res.ChangedFiles)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		tr, err := NewRegexTransformer(`x`, "y")
		require.NoError(t, err)

		_, err = tr.Transform(context.Background(), pipeline.Runtime{}, batcher.Batch{
			Items: []item.Item{item.NewFile(filepath.Join(t.TempDir(), "missing.go"))},
		})
		require.Error(t, err)
	})

	t.Run("relative items resolve against the work dir", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.go", "old\n")

		tr, err := NewRegexTransformer(`old`, "new")
		require.NoError(t, err)

		res, err := tr.Transform(context.Background(), pipeline.Runtime{WorkDir: dir}, batcher.Batch{
			Items: []item.Item{item.NewFile("a.go")},
		})
		require.NoError(t, err)
		assert.True(t, res.Changed)

		got, err := os.ReadFile(filepath.Join(dir, "a.go"))
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(got))
	})

	t.Run("capture groups in replacement", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.py", "assertEquals(x, y)\n")

		tr, err := NewRegexTransformer(`assertEquals\((.*)\)`, "assertEqual($1)")
		require.NoError(t, err)

		_, err = tr.Transform(context.Background(), pipeline.Runtime{}, batcher.Batch{
			Items: []item.Item{item.NewFile(a)},
		})
		require.NoError(t, err)

		got, err := os.ReadFile(a)
		require.NoError(t, err)
		assert.Equal(t, "assertEqual(x, y)\n", string(got))
	})
}

func TestScriptTransformer(t *testing.T) {
	t.Run("runs script with batch placeholders", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "ran")

		tr := &ScriptTransformer{Script: pipeline.Script{
			Command: []string{"sh", "-c", `printf '%s' '{{ join .Items "," }}' > ` + marker},
		}}

		rt := pipeline.Runtime{Exec: &executil.RealExecutor{}, WorkDir: dir}
		batch := batcher.Batch{
			Items:    []item.Item{item.NewFile("a.go"), item.NewFile("b.go")},
			Metadata: batcher.Metadata{Title: "t"},
		}

		res, err := tr.Transform(context.Background(), rt, batch)
		require.NoError(t, err)
		assert.True(t, res.Changed, "script effect is opaque, always reported as changed")

		got, err := os.ReadFile(marker)
		require.NoError(t, err)
		assert.Equal(t, "a.go,b.go", string(got))
	})

	t.Run("failing script is an error", func(t *testing.T) {
		tr := &ScriptTransformer{Script: pipeline.Script{Command: []string{"sh", "-c", "exit 3"}}}
		rt := pipeline.Runtime{Exec: &executil.RealExecutor{}}

		_, err := tr.Transform(context.Background(), rt, batcher.Batch{})
		require.Error(t, err)
	})
}

func TestFactory_RoundTrip(t *testing.T) {
	regex, err := NewRegexTransformer(`old`, "new")
	require.NoError(t, err)

	tests := []struct {
		name        string
		transformer Transformer
	}{
		{"regex", regex},
		{"script", &ScriptTransformer{Script: pipeline.Script{
			Command:        []string{"sh", "-c", "true"},
			TimeoutSeconds: 60,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := registry.Encode(tt.transformer)
			require.NoError(t, err)

			decoded, err := Factory.Get(b)
			require.NoError(t, err)
			assert.Equal(t, tt.transformer, decoded)
		})
	}
}

func TestFactory_Validation(t *testing.T) {
	_, err := Factory.Get(registry.Bundle{Name: NameRegex, Params: []byte(`{"replacement":"x"}`)})
	assert.Error(t, err, "pattern is required")

	_, err = Factory.Get(registry.Bundle{Name: NameScript, Params: []byte(`{"command":[]}`)})
	assert.Error(t, err, "script command is required")
}

func TestFactory_Complete(t *testing.T) {
	assert.NoError(t, Factory.Validate(Names))
}
