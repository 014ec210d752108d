// Package schema declares complete transformation pipelines: which items to
// consider, how to filter and group them, what transformation to apply, and
// how the resulting changes are labeled and capped.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/command"
	"github.com/fxchen/autotransform/internal/core/filter"
	"github.com/fxchen/autotransform/internal/core/input"
	"github.com/fxchen/autotransform/internal/core/registry"
	"github.com/fxchen/autotransform/internal/core/transformer"
)

// Config holds the schema settings that shape submitted changes rather than
// the transformation itself.
type Config struct {
	// Owners are recorded on submitted changes for review routing.
	Owners []string `json:"owners,omitempty"`
	// Labels are applied to submitted changes.
	Labels []string `json:"labels,omitempty"`
	// MaxSubmissions caps how many batches a single run may submit.
	// Zero means unlimited.
	MaxSubmissions int `json:"max_submissions,omitempty"`
}

// Schema is a fully decoded transformation pipeline. Filters and commands
// may be empty; every other component is required.
type Schema struct {
	Name        string
	Input       input.Input
	Filters     []filter.Filter
	Batcher     batcher.Batcher
	Transformer transformer.Transformer
	Commands    []command.Command
	Config      Config
}

// Validate checks that the schema names itself and carries every required
// component.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is required")
	}
	if s.Input == nil {
		return fmt.Errorf("schema %q: input is required", s.Name)
	}
	if s.Batcher == nil {
		return fmt.Errorf("schema %q: batcher is required", s.Name)
	}
	if s.Transformer == nil {
		return fmt.Errorf("schema %q: transformer is required", s.Name)
	}
	if s.Config.MaxSubmissions < 0 {
		return fmt.Errorf("schema %q: max_submissions must not be negative", s.Name)
	}
	return nil
}

// doc is the serialized form of a schema: every component as a bundle.
type doc struct {
	Name        string            `json:"name"`
	Input       registry.Bundle   `json:"input"`
	Filters     []registry.Bundle `json:"filters,omitempty"`
	Batcher     registry.Bundle   `json:"batcher"`
	Transformer registry.Bundle   `json:"transformer"`
	Commands    []registry.Bundle `json:"commands,omitempty"`
	Config      Config            `json:"config,omitempty"`
}

// MarshalJSON encodes every component through its factory so that
// Decode(Marshal(s)) reproduces the schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	d := doc{Name: s.Name, Config: s.Config}

	var err error
	if d.Input, err = registry.Encode(s.Input); err != nil {
		return nil, err
	}
	if d.Batcher, err = registry.Encode(s.Batcher); err != nil {
		return nil, err
	}
	if d.Transformer, err = registry.Encode(s.Transformer); err != nil {
		return nil, err
	}

	for _, f := range s.Filters {
		b, err := registry.Encode(f)
		if err != nil {
			return nil, err
		}
		d.Filters = append(d.Filters, b)
	}
	for _, c := range s.Commands {
		b, err := registry.Encode(c)
		if err != nil {
			return nil, err
		}
		d.Commands = append(d.Commands, b)
	}

	return json.Marshal(d)
}

// Decode reconstructs a schema from its serialized form, resolving every
// component bundle through its factory.
func Decode(data []byte) (*Schema, error) {
	var d doc
	if err := registry.DecodeStrict(data, &d); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	s := &Schema{Name: d.Name, Config: d.Config}

	var err error
	if s.Input, err = input.Factory.Get(d.Input); err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}
	if s.Batcher, err = batcher.Factory.Get(d.Batcher); err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}
	if s.Transformer, err = transformer.Factory.Get(d.Transformer); err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}

	for i, b := range d.Filters {
		f, err := filter.Factory.Get(b)
		if err != nil {
			return nil, fmt.Errorf("schema %q filter %d: %w", d.Name, i, err)
		}
		s.Filters = append(s.Filters, f)
	}
	for i, b := range d.Commands {
		c, err := command.Factory.Get(b)
		if err != nil {
			return nil, fmt.Errorf("schema %q command %d: %w", d.Name, i, err)
		}
		s.Commands = append(s.Commands, c)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads and decodes a schema document from disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Decode(data)
}
