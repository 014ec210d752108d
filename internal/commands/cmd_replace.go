package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/filter"
	"github.com/fxchen/autotransform/internal/core/input"
	"github.com/fxchen/autotransform/internal/core/runner"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/internal/core/transformer"
	"github.com/fxchen/autotransform/pkg/iojson"
)

// replaceTimeout is the fixed budget for an ad-hoc replace run. Anything
// slower deserves a real schema with a configured timeout.
const replaceTimeout = 30 * time.Second

type ReplaceCmd struct {
	flags      *Flags
	dir        string
	extensions []string
}

// NewReplaceCmd creates a new replace command.
func NewReplaceCmd(flags *Flags) *ReplaceCmd {
	return &ReplaceCmd{flags: flags}
}

// Register adds the replace command to the application.
func (cmd *ReplaceCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "replace",
		Usage:       "Run an ad-hoc regex replacement over a directory",
		UsageText:   "autotransform replace [options] <pattern> <replacement>",
		Description: "Applies a regex replacement to every matching file in place. The working tree is modified directly; nothing is committed or submitted.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory to walk (defaults to current directory)",
				Value:       ".",
				Destination: &cmd.dir,
			},
			&cli.StringSliceFlag{
				Name:        "extension",
				Aliases:     []string{"e"},
				Usage:       "restrict to files with this extension (repeatable)",
				Destination: &cmd.extensions,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplaceCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <pattern> and <replacement> arguments")
	}

	tf, err := transformer.NewRegexTransformer(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	// The walk is rooted at "." so item keys stay relative to the work
	// dir; the transformer resolves them against the same dir.
	sch := &schema.Schema{
		Name:        "replace",
		Input:       &input.DirectoryInput{Path: ".", Recursive: true},
		Batcher:     &batcher.SingleBatcher{Metadata: batcher.Metadata{Title: "regex replace"}},
		Transformer: tf,
	}
	if len(cmd.extensions) > 0 {
		sch.Filters = []filter.Filter{&filter.ExtensionFilter{Extensions: cmd.extensions}}
	}

	rt := newRuntime(cmd.dir)
	newWorker := func(s *schema.Schema, b batcher.Batch) runner.Worker {
		return runner.NewLocalWorker(s, b, rt, nil, nil)
	}

	r := runner.New(rt, newWorker, runner.WithTimeout(replaceTimeout))
	result, err := r.Run(ctx, sch)
	if err != nil {
		return err
	}

	report := runReport{Run: result.ID, Schema: result.Schema}
	for _, res := range result.Results {
		br := batchReport{Title: res.Batch.Metadata.Title, Outcome: string(res.Outcome)}
		if res.Err != nil {
			br.Error = res.Err.Error()
		}
		report.Batches = append(report.Batches, br)
	}

	if err := iojson.Write(report); err != nil {
		return err
	}

	if result.Failed() {
		return fmt.Errorf("replace did not complete")
	}
	return nil
}
