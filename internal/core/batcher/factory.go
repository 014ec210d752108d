package batcher

import (
	"encoding/json"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom batcher variant.
var Names = []string{NameChunk, NameSingle}

// Factory reconstructs batchers from serialized bundles.
var Factory = registry.New[Batcher]("batcher")

func init() {
	Factory.Register(NameSingle, func(params json.RawMessage) (Batcher, error) {
		var b SingleBatcher
		if err := registry.DecodeStrict(params, &b); err != nil {
			return nil, err
		}
		return &b, nil
	})

	Factory.Register(NameChunk, func(params json.RawMessage) (Batcher, error) {
		var b ChunkBatcher
		if err := registry.DecodeStrict(params, &b); err != nil {
			return nil, err
		}
		return NewChunkBatcher(b.ChunkSize, b.Metadata)
	})
}
