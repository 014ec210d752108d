package batcher

import "github.com/fxchen/autotransform/internal/core/item"

// SingleBatcher produces exactly one batch containing all items.
type SingleBatcher struct {
	Metadata Metadata `json:"metadata"`
}

// Name returns the registered variant name.
func (b *SingleBatcher) Name() string { return NameSingle }

// Batch returns one batch with every item, or no batches when the input is
// empty.
func (b *SingleBatcher) Batch(items []item.Item) ([]Batch, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return []Batch{{Items: items, Metadata: b.Metadata}}, nil
}
