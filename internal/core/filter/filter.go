// Package filter provides the predicates that narrow discovered items before
// batching. Every filter supports inversion, and a schema's ordered filter
// list is evaluated as a logical AND.
package filter

import (
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered filter variant names.
const (
	NameExtension        = "extension"
	NameRegex            = "regex"
	NameFileContentRegex = "file_content_regex"
	NameKeyHashShard     = "key_hash_shard"
)

// Filter is a side-effect-free predicate over an item.
type Filter interface {
	registry.Component
	Valid(it item.Item) (bool, error)
}

// verdict applies the inversion flag to a raw predicate result.
func verdict(raw, inverted bool) bool {
	return raw != inverted
}

// Keep evaluates the ordered filter list as a logical AND over one item.
func Keep(filters []Filter, it item.Item) (bool, error) {
	for _, f := range filters {
		ok, err := f.Valid(it)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
