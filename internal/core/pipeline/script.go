package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/pkg/tmpl"
)

// defaultScriptTimeout bounds script runs that do not declare their own.
const defaultScriptTimeout = 5 * time.Minute

// Script is the shared definition for script-backed components: a templated
// argv plus a timeout. Command elements are Go templates rendered against
// ScriptData before execution.
type Script struct {
	Command        []string `json:"command"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// Validate checks the script definition at decode time.
func (s Script) Validate() error {
	if len(s.Command) == 0 {
		return fmt.Errorf("script command is required")
	}
	for i, arg := range s.Command {
		if err := tmpl.Validate(arg); err != nil {
			return fmt.Errorf("command[%d]: %w", i, err)
		}
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	return nil
}

// ScriptData is the template data available to script command lines.
type ScriptData struct {
	WorkDir    string
	Items      []string
	Title      string
	ResultFile string
	Extra      map[string]any
}

// usesResultFile reports whether any raw command element references the
// ResultFile placeholder, signaling out-of-band output.
func (s Script) usesResultFile() bool {
	for _, arg := range s.Command {
		if strings.Contains(arg, ".ResultFile") {
			return true
		}
	}
	return false
}

// timeout returns the effective wall-clock budget for one invocation.
func (s Script) timeout() time.Duration {
	if s.TimeoutSeconds > 0 {
		return time.Duration(s.TimeoutSeconds) * time.Second
	}
	return defaultScriptTimeout
}

// Run renders the command, executes it under the script's timeout, and
// returns the result payload: the contents of the designated result file
// when the command uses one, the captured stdout otherwise. Nonzero exit
// and timeout expiry are failures, never silent empty results.
func (s Script) Run(ctx context.Context, rt Runtime, data ScriptData) ([]byte, error) {
	useFile := s.usesResultFile()
	if useFile {
		f, err := os.CreateTemp("", "autotransform-result-*.json")
		if err != nil {
			return nil, fmt.Errorf("create result file: %w", err)
		}
		data.ResultFile = f.Name()
		_ = f.Close()
		defer func() { _ = os.Remove(data.ResultFile) }()
	}

	argv := make([]string, len(s.Command))
	for i, arg := range s.Command {
		rendered, err := tmpl.Render(arg, data)
		if err != nil {
			return nil, fmt.Errorf("render command[%d]: %w", i, err)
		}
		argv[i] = rendered
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	rt.Handler().Handle(events.Event{
		Type:    events.TypeScriptRun,
		Message: "running script",
		Fields:  map[string]any{"command": strings.Join(argv, " ")},
	})

	stdout, stderr, err := rt.Exec.Output(runCtx, rt.WorkDir, argv[0], argv[1:]...)
	events.Verbose(rt.Handler(), "script stdout", map[string]any{"output": string(stdout)})
	events.Verbose(rt.Handler(), "script stderr", map[string]any{"output": string(stderr)})
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("script timed out after %s: %w", s.timeout(), err)
		}
		return nil, fmt.Errorf("script failed: %w", err)
	}

	if useFile {
		payload, err := os.ReadFile(data.ResultFile)
		if err != nil {
			return nil, fmt.Errorf("read result file: %w", err)
		}
		return payload, nil
	}
	return stdout, nil
}
