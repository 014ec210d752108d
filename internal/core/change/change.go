// Package change models the upstream artifact produced by submitting a
// batch, typically a pull request, and its lifecycle state.
package change

import (
	"strings"
	"time"
)

// State is the lifecycle state of a change.
type State string

// Change states. Merged, closed, and abandoned are terminal. Unknown marks
// an inconclusive status refresh; it is never terminal and is re-resolved
// on the next refresh.
const (
	StateOpen      State = "open"
	StateMerged    State = "merged"
	StateClosed    State = "closed"
	StateAbandoned State = "abandoned"
	StateUnknown   State = "unknown"
)

// States lists every valid change state.
var States = []State{StateAbandoned, StateClosed, StateMerged, StateOpen, StateUnknown}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateOpen, StateMerged, StateClosed, StateAbandoned, StateUnknown:
		return true
	default:
		return false
	}
}

// Terminal reports whether the state is final. Step evaluation stops for
// changes in a terminal state.
func (s State) Terminal() bool {
	switch s {
	case StateMerged, StateClosed, StateAbandoned:
		return true
	default:
		return false
	}
}

// ParseState maps a host-side state string (e.g. GitHub's "OPEN") to a
// change state. Anything unrecognized maps to unknown rather than guessed.
func ParseState(s string) State {
	switch strings.ToLower(s) {
	case "open":
		return StateOpen
	case "merged":
		return StateMerged
	case "closed":
		return StateClosed
	case "abandoned":
		return StateAbandoned
	default:
		return StateUnknown
	}
}

// Change is a tracked upstream artifact. It is mutated only through action
// execution or an external state refresh, and never deleted.
type Change struct {
	// ID is the opaque handle into the hosting system (the PR URL).
	ID string `json:"id,omitempty"`
	// Number is the host-side pull request number.
	Number int `json:"number"`
	// Branch is the head branch carrying the submitted work.
	Branch string `json:"branch"`
	// SchemaName identifies which schema produced the change.
	SchemaName string    `json:"schema_name,omitempty"`
	State      State     `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Name returns the registered variant name for the factory.
func (c Change) Name() string { return NameGithub }

// CreatedAgo returns the change's age in seconds at the given instant.
func (c Change) CreatedAgo(now time.Time) int64 {
	return int64(now.Sub(c.CreatedAt) / time.Second)
}

// UpdatedAgo returns seconds since the change was last updated at the given
// instant.
func (c Change) UpdatedAgo(now time.Time) int64 {
	return int64(now.Sub(c.UpdatedAt) / time.Second)
}
