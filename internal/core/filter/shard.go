package filter

import (
	"fmt"
	"hash/fnv"

	"github.com/fxchen/autotransform/internal/core/item"
)

// KeyHashShardFilter keeps only items whose key hashes into the configured
// shard. Items outside the shard are intentionally dropped: the filter
// partitions work across parallel runs, and the same key always lands in
// the same shard because the assignment is a pure function of the key.
type KeyHashShardFilter struct {
	NumShards  int  `json:"num_shards"`
	ValidShard int  `json:"valid_shard"`
	Inverted   bool `json:"inverted,omitempty"`
}

// NewKeyHashShardFilter validates the shard configuration and returns the
// filter.
func NewKeyHashShardFilter(numShards, validShard int, inverted bool) (*KeyHashShardFilter, error) {
	f := &KeyHashShardFilter{NumShards: numShards, ValidShard: validShard, Inverted: inverted}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *KeyHashShardFilter) validate() error {
	if f.NumShards < 1 {
		return fmt.Errorf("num_shards must be at least 1, got %d", f.NumShards)
	}
	if f.ValidShard < 0 || f.ValidShard >= f.NumShards {
		return fmt.Errorf("valid_shard must be in [0, %d), got %d", f.NumShards, f.ValidShard)
	}
	return nil
}

// Name returns the registered variant name.
func (f *KeyHashShardFilter) Name() string { return NameKeyHashShard }

// Valid reports whether the item's key hashes into this filter's shard.
func (f *KeyHashShardFilter) Valid(it item.Item) (bool, error) {
	return verdict(Shard(it.Key, f.NumShards) == f.ValidShard, f.Inverted), nil
}

// Shard returns the shard assignment for a key: fnv64a(key) mod numShards.
// The assignment depends only on the key, which makes sharded runs
// resumable: repeated runs always see the same partition.
func Shard(key string, numShards int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum64() % uint64(numShards))
}
