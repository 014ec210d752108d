// Package pipeline holds the shared execution context and script plumbing
// passed to pipeline components.
package pipeline

import (
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/pkg/executil"
)

// Runtime carries the collaborators a component needs at execution time.
// It is constructed by the caller and passed explicitly; components never
// reach for process-global state.
type Runtime struct {
	// Exec runs external processes. Tests substitute a recording executor.
	Exec executil.Executor
	// Events is the diagnostic sink. Nil is treated as a no-op sink.
	Events events.Handler
	// WorkDir is the working-tree root the current worker operates on.
	WorkDir string
}

// Handler returns the event sink, substituting a no-op handler when unset.
func (r Runtime) Handler() events.Handler {
	if r.Events == nil {
		return events.NopHandler{}
	}
	return r.Events
}
