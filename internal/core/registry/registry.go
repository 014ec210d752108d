// Package registry implements the named-component factories used to declare
// pipeline components in serialized bundles and reconstruct them at runtime.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CustomPrefix is the reserved namespace for user-registered components.
const CustomPrefix = "custom/"

// ErrUnknownComponent is returned when a bundle names a component that was
// never registered.
var ErrUnknownComponent = errors.New("unknown component name")

// Component is implemented by every pluggable pipeline component.
type Component interface {
	// Name returns the registered name of the concrete component variant.
	Name() string
}

// Bundle is the serialized form of a component: a registered name plus the
// component's own parameters.
type Bundle struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}

// DecodeFunc reconstructs a component from its bundle params.
type DecodeFunc[T Component] func(params json.RawMessage) (T, error)

// Registry maps component names to decoders for one component family.
// Registration happens during package init; the registry is read-only
// afterwards, so lookups are safe for concurrent use.
type Registry[T Component] struct {
	kind     string
	decoders map[string]DecodeFunc[T]
}

// New creates a registry for the named component family (e.g. "filter").
func New[T Component](kind string) *Registry[T] {
	return &Registry[T]{
		kind:     kind,
		decoders: make(map[string]DecodeFunc[T]),
	}
}

// Register binds a component name to its decoder. Duplicate registration is
// a programming error and panics.
func (r *Registry[T]) Register(name string, fn DecodeFunc[T]) {
	if _, ok := r.decoders[name]; ok {
		panic(fmt.Sprintf("registry %s: duplicate component %q", r.kind, name))
	}
	r.decoders[name] = fn
}

// Get reconstructs a component instance from its bundle. An unregistered
// name or malformed params is a configuration error surfaced immediately.
func (r *Registry[T]) Get(b Bundle) (T, error) {
	var zero T

	fn, ok := r.decoders[b.Name]
	if !ok {
		return zero, fmt.Errorf("%s %q: %w", r.kind, b.Name, ErrUnknownComponent)
	}

	params := b.Params
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	c, err := fn(params)
	if err != nil {
		return zero, fmt.Errorf("decode %s %q: %w", r.kind, b.Name, err)
	}
	return c, nil
}

// Components returns the sorted names of all registered non-custom variants.
func (r *Registry[T]) Components() []string {
	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		if strings.HasPrefix(name, CustomPrefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CustomComponents returns the sorted names of registered custom variants.
// Each custom entry is resolved by probing its decoder; when strict is true
// a resolution failure is an error, otherwise the entry is skipped. An entry
// whose resolved component name does not match its registered key is always
// an error.
func (r *Registry[T]) CustomComponents(strict bool) ([]string, error) {
	var names []string
	for name, fn := range r.decoders {
		if !strings.HasPrefix(name, CustomPrefix) {
			continue
		}

		c, err := fn(json.RawMessage(`{}`))
		if err != nil {
			if strict {
				return nil, fmt.Errorf("resolve custom %s %q: %w", r.kind, name, err)
			}
			continue
		}

		if CustomPrefix+c.Name() != name {
			return nil, fmt.Errorf("custom %s %q resolves to component named %q", r.kind, name, c.Name())
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that the registered non-custom names exactly match the
// declared set, and that every remaining entry carries the custom prefix.
// Used as a startup/test self-check for each component family.
func (r *Registry[T]) Validate(declared []string) error {
	want := make(map[string]bool, len(declared))
	for _, name := range declared {
		want[name] = true
	}

	for name := range r.decoders {
		if strings.HasPrefix(name, CustomPrefix) {
			continue
		}
		if !want[name] {
			return fmt.Errorf("registry %s: unexpected component %q", r.kind, name)
		}
	}

	for _, name := range declared {
		if _, ok := r.decoders[name]; !ok {
			return fmt.Errorf("registry %s: missing component %q", r.kind, name)
		}
	}

	return nil
}

// Encode produces the serialized bundle for a component. Encode and
// Registry.Get are exact inverses for every registered variant.
func Encode[T Component](c T) (Bundle, error) {
	params, err := json.Marshal(c)
	if err != nil {
		return Bundle{}, fmt.Errorf("encode component %q: %w", c.Name(), err)
	}
	return Bundle{Name: c.Name(), Params: params}, nil
}

// DecodeStrict unmarshals bundle params into v, rejecting unknown fields.
// Decoders for non-custom components use this so that malformed bundles
// fail at decode time rather than during execution.
func DecodeStrict(params json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
