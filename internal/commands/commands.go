// Package commands contains the CLI subcommands.
package commands

import (
	"github.com/rs/zerolog/log"

	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/pkg/executil"
)

// newRuntime builds the execution context commands hand to the pipeline:
// a real executor and the process logger as event sink.
func newRuntime(workDir string) pipeline.Runtime {
	return pipeline.Runtime{
		Exec:    &executil.RealExecutor{},
		Events:  events.NewLogHandler(log.Logger),
		WorkDir: workDir,
	}
}
