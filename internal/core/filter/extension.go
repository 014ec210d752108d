package filter

import (
	"path/filepath"

	"github.com/fxchen/autotransform/internal/core/item"
)

// ExtensionFilter keeps items whose key has one of the configured file
// extensions (leading dot included, e.g. ".py").
type ExtensionFilter struct {
	Extensions []string `json:"extensions"`
	Inverted   bool     `json:"inverted,omitempty"`
}

// Name returns the registered variant name.
func (f *ExtensionFilter) Name() string { return NameExtension }

// Valid reports whether the item's extension is in the configured set.
func (f *ExtensionFilter) Valid(it item.Item) (bool, error) {
	ext := filepath.Ext(it.Key)
	match := false
	for _, want := range f.Extensions {
		if ext == want {
			match = true
			break
		}
	}
	return verdict(match, f.Inverted), nil
}
