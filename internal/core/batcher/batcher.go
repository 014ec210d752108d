// Package batcher groups filtered items into the batches that workers
// execute. Batchers partition their input: every item appears in exactly
// one returned batch, in its original relative order, and no batch is
// empty.
package batcher

import (
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered batcher variant names.
const (
	NameSingle = "single"
	NameChunk  = "chunk"
)

// Metadata describes the eventual change produced from a batch.
type Metadata struct {
	Title   string         `json:"title"`
	Summary string         `json:"summary,omitempty"`
	Tests   string         `json:"tests,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Batch is the unit of transformation and submission: an ordered item
// sequence plus descriptive metadata. Immutable after creation.
type Batch struct {
	Items    []item.Item
	Metadata Metadata
}

// Keys returns the batch's item keys in order.
func (b Batch) Keys() []string {
	keys := make([]string, len(b.Items))
	for i, it := range b.Items {
		keys[i] = it.Key
	}
	return keys
}

// Batcher partitions a filtered item sequence into batches.
type Batcher interface {
	registry.Component
	Batch(items []item.Item) ([]Batch, error)
}
