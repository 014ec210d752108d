package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/registry"
)

func TestExtensionFilter(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		inverted   bool
		key        string
		want       bool
	}{
		{"matching extension", []string{".go"}, false, "pkg/main.go", true},
		{"non-matching extension", []string{".go"}, false, "setup.py", false},
		{"one of several", []string{".py", ".go"}, false, "setup.py", true},
		{"no extension", []string{".go"}, false, "Makefile", false},
		{"inverted match", []string{".go"}, true, "pkg/main.go", false},
		{"inverted non-match", []string{".go"}, true, "setup.py", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ExtensionFilter{Extensions: tt.extensions, Inverted: tt.inverted}
			got, err := f.Valid(item.NewFile(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegexFilter(t *testing.T) {
	t.Run("invalid pattern fails at construction", func(t *testing.T) {
		_, err := NewRegexFilter("(", false)
		require.Error(t, err)
	})

	t.Run("matches keys", func(t *testing.T) {
		f, err := NewRegexFilter(`_test\.go$`, false)
		require.NoError(t, err)

		got, err := f.Valid(item.NewFile("pkg/a_test.go"))
		require.NoError(t, err)
		assert.True(t, got)

		got, err = f.Valid(item.NewFile("pkg/a.go"))
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("inversion flips the verdict", func(t *testing.T) {
		f, err := NewRegexFilter(`_test\.go$`, true)
		require.NoError(t, err)

		got, err := f.Valid(item.NewFile("pkg/a_test.go"))
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestFileContentRegexFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "handler.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc oldName() {}\n"), 0o644))

	t.Run("content match", func(t *testing.T) {
		f, err := NewFileContentRegexFilter(`oldName`, false)
		require.NoError(t, err)

		got, err := f.Valid(item.NewFile(path))
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("no content match", func(t *testing.T) {
		f, err := NewFileContentRegexFilter(`newName`, false)
		require.NoError(t, err)

		got, err := f.Valid(item.NewFile(path))
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		f, err := NewFileContentRegexFilter(`x`, false)
		require.NoError(t, err)

		_, err = f.Valid(item.NewFile(filepath.Join(dir, "missing.go")))
		require.Error(t, err)
	})
}

func TestKeyHashShardFilter(t *testing.T) {
	t.Run("construction validates shards", func(t *testing.T) {
		_, err := NewKeyHashShardFilter(0, 0, false)
		assert.Error(t, err)

		_, err = NewKeyHashShardFilter(4, 4, false)
		assert.Error(t, err)

		_, err = NewKeyHashShardFilter(4, -1, false)
		assert.Error(t, err)
	})

	t.Run("assignment is deterministic", func(t *testing.T) {
		for _, key := range []string{"a.go", "b.go", "deep/nested/file.py"} {
			first := Shard(key, 7)
			for range 10 {
				assert.Equal(t, first, Shard(key, 7))
			}
		}
	})

	t.Run("shards partition the key space", func(t *testing.T) {
		const numShards = 4
		filters := make([]*KeyHashShardFilter, numShards)
		for i := range filters {
			f, err := NewKeyHashShardFilter(numShards, i, false)
			require.NoError(t, err)
			filters[i] = f
		}

		keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		for _, key := range keys {
			matches := 0
			for _, f := range filters {
				ok, err := f.Valid(item.New(key))
				require.NoError(t, err)
				if ok {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "key %q must land in exactly one shard", key)
		}
	})
}

func TestKeep(t *testing.T) {
	ext := &ExtensionFilter{Extensions: []string{".go"}}
	tests, err := NewRegexFilter(`_test\.go$`, true)
	require.NoError(t, err)

	filters := []Filter{ext, tests}

	keep := func(key string) bool {
		ok, err := Keep(filters, item.NewFile(key))
		require.NoError(t, err)
		return ok
	}

	assert.True(t, keep("pkg/a.go"))
	assert.False(t, keep("pkg/a_test.go"), "second filter rejects")
	assert.False(t, keep("setup.py"), "first filter rejects")

	ok, err := Keep(nil, item.New("anything"))
	require.NoError(t, err)
	assert.True(t, ok, "empty filter list keeps everything")
}

func TestFactory_RoundTrip(t *testing.T) {
	regex, err := NewRegexFilter(`\.go$`, true)
	require.NoError(t, err)
	content, err := NewFileContentRegexFilter(`TODO`, false)
	require.NoError(t, err)
	shard, err := NewKeyHashShardFilter(8, 3, false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
	}{
		{"extension", &ExtensionFilter{Extensions: []string{".go", ".py"}}},
		{"regex", regex},
		{"file content regex", content},
		{"key hash shard", shard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := registry.Encode(tt.filter)
			require.NoError(t, err)

			decoded, err := Factory.Get(b)
			require.NoError(t, err)
			assert.Equal(t, tt.filter, decoded)
		})
	}
}

func TestFactory_Complete(t *testing.T) {
	assert.NoError(t, Factory.Validate(Names))
}
