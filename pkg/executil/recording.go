package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their stdout/combined output.
	// Key is the command name (e.g., "git").
	Outputs map[string][]byte

	// Stderrs maps command names to stderr output for Output calls.
	Stderrs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, _, err := e.record("", cmd, args...)
	return out, err
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	out, _, err := e.record(dir, cmd, args...)
	return out, err
}

// Output records the command and returns configured stdout/stderr/error.
func (e *RecordingExecutor) Output(ctx context.Context, dir, cmd string, args ...string) ([]byte, []byte, error) {
	return e.record(dir, cmd, args...)
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	var (
		out    []byte
		stderr []byte
		err    error
	)

	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Stderrs != nil {
		stderr = e.Stderrs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}

	return out, stderr, err
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
