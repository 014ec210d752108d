package batcher

import (
	"fmt"

	"github.com/fxchen/autotransform/internal/core/item"
)

// ChunkBatcher splits items into fixed-size chunks, one batch per chunk.
// Chunk titles are annotated "[i/n] title" so branch names stay unique.
type ChunkBatcher struct {
	ChunkSize int      `json:"chunk_size"`
	Metadata  Metadata `json:"metadata"`
}

// NewChunkBatcher validates the chunk size and returns the batcher.
func NewChunkBatcher(size int, md Metadata) (*ChunkBatcher, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk_size must be at least 1, got %d", size)
	}
	return &ChunkBatcher{ChunkSize: size, Metadata: md}, nil
}

// Name returns the registered variant name.
func (b *ChunkBatcher) Name() string { return NameChunk }

// Batch partitions the items into chunks of at most ChunkSize, preserving
// order.
func (b *ChunkBatcher) Batch(items []item.Item) ([]Batch, error) {
	if b.ChunkSize < 1 {
		return nil, fmt.Errorf("chunk_size must be at least 1, got %d", b.ChunkSize)
	}
	if len(items) == 0 {
		return nil, nil
	}

	total := (len(items) + b.ChunkSize - 1) / b.ChunkSize
	batches := make([]Batch, 0, total)
	for i := 0; i < total; i++ {
		start := i * b.ChunkSize
		end := min(start+b.ChunkSize, len(items))

		md := b.Metadata
		if total > 1 {
			md.Title = fmt.Sprintf("[%d/%d] %s", i+1, total, b.Metadata.Title)
		}
		batches = append(batches, Batch{Items: items[start:end], Metadata: md})
	}
	return batches, nil
}
