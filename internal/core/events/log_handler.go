package events

import "github.com/rs/zerolog"

// LogHandler writes events to a zerolog logger. Warning events log at warn
// level, script and remote runs at info, everything else at debug.
type LogHandler struct {
	log zerolog.Logger
}

// NewLogHandler creates a handler backed by the given logger.
func NewLogHandler(log zerolog.Logger) *LogHandler {
	return &LogHandler{log: log}
}

// Handle logs the event. Never blocks beyond the logger write itself.
func (h *LogHandler) Handle(e Event) {
	var ev *zerolog.Event
	switch e.Type {
	case TypeWarning:
		ev = h.log.Warn()
	case TypeScriptRun, TypeRemoteRun:
		ev = h.log.Info()
	default:
		ev = h.log.Debug()
	}

	ev = ev.Str("event", string(e.Type))
	for k, v := range e.Fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(e.Message)
}
