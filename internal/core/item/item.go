// Package item defines the atomic unit of candidate work flowing through
// the pipeline: a stable key plus opaque extra data.
package item

// Registered item variant names.
const (
	NameGeneric = "generic"
	NameFile    = "file"
)

// Item is a single unit of candidate work. Items are immutable once
// constructed: they are created by an Input during discovery, consumed by
// filters and batchers, and never mutated.
type Item struct {
	Key       string         `json:"key"`
	ExtraData map[string]any `json:"extra_data,omitempty"`

	name string
}

// New creates a generic item with the given key.
func New(key string) Item {
	return Item{Key: key, name: NameGeneric}
}

// NewFile creates a file item whose key is the file path.
func NewFile(path string) Item {
	return Item{Key: path, name: NameFile}
}

// WithExtraData returns a copy of the item carrying the given extra data.
func (i Item) WithExtraData(data map[string]any) Item {
	i.ExtraData = data
	return i
}

// Name returns the registered variant name for this item.
func (i Item) Name() string {
	if i.name == "" {
		return NameGeneric
	}
	return i.name
}

// Path returns the file path for file items. For generic items this is the
// raw key.
func (i Item) Path() string {
	return i.Key
}
