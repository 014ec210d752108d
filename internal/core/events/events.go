// Package events provides the process-wide sink for structured diagnostics
// emitted by pipeline components. Delivery is fire-and-forget: handlers
// must not block and provide no backpressure.
package events

// Type identifies the kind of event being emitted.
type Type string

// Event types emitted by pipeline and change-management components.
const (
	TypeDebug     Type = "debug"
	TypeVerbose   Type = "verbose"
	TypeWarning   Type = "warning"
	TypeScriptRun Type = "script_run"
	TypeRemoteRun Type = "remote_run"
)

// Event is a single structured diagnostic.
type Event struct {
	Type    Type
	Message string
	Fields  map[string]any
}

// Handler consumes events. Implementations must be safe for concurrent use.
type Handler interface {
	Handle(e Event)
}

// NopHandler discards all events. It is the valid default for tests and for
// callers that do not care about diagnostics.
type NopHandler struct{}

// Handle discards the event.
func (NopHandler) Handle(Event) {}

// Debug emits a debug event to h.
func Debug(h Handler, msg string, fields map[string]any) {
	h.Handle(Event{Type: TypeDebug, Message: msg, Fields: fields})
}

// Verbose emits a verbose event to h.
func Verbose(h Handler, msg string, fields map[string]any) {
	h.Handle(Event{Type: TypeVerbose, Message: msg, Fields: fields})
}

// Warn emits a warning event to h.
func Warn(h Handler, msg string, fields map[string]any) {
	h.Handle(Event{Type: TypeWarning, Message: msg, Fields: fields})
}
