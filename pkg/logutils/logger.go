// Package logutils builds the process logger. Logs are structured JSON and
// go to stdout by default or to a file when one is configured, keeping
// stdout's report output and diagnostics separable in automation.
package logutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds a logger at the given level ("debug", "info", "warn", "error",
// "fatal") writing to file, or stdout when file is empty. The returned
// closer releases the log file and is safe to call when logging to stdout.
func New(level, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level: %w", err)
	}

	sink := os.Stdout
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create log dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		sink = f
	}

	logger := zerolog.New(sink).With().Timestamp().Logger().Level(lvl)
	return logger, closer, nil
}
