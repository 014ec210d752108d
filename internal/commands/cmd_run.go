package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/repo"
	"github.com/fxchen/autotransform/internal/core/runner"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/pkg/iojson"
)

type RunCmd struct {
	flags  *Flags
	reader iojson.FileReader[json.RawMessage]
	dir    string
	dryRun bool
}

// NewRunCmd creates a new run command.
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application.
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "run",
		Usage:       "Execute a schema against a repository",
		UsageText:   "autotransform run [options]",
		Description: "Reads a serialized schema, gathers and transforms items, and submits the resulting batches as pull requests.",
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "repository working tree (defaults to current directory)",
				Value:       ".",
				Destination: &cmd.dir,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "transform and run commands but never branch, push, or submit",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

// runReport is the JSON result written for a run.
type runReport struct {
	Run     string        `json:"run"`
	Schema  string        `json:"schema"`
	Batches []batchReport `json:"batches"`
}

type batchReport struct {
	Title   string `json:"title"`
	Outcome string `json:"outcome"`
	Change  string `json:"change,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	raw, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	sch, err := schema.Decode(raw)
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	rt := newRuntime(cmd.dir)
	gitRepo := repo.New(cfg.GitPath, cmd.dir, cfg.GitHub.BaseBranch, rt.Exec)

	var submitter runner.Submitter
	if !cmd.dryRun {
		if cfg.GitHub.Repo == "" {
			return fmt.Errorf("github.repo must be configured to submit changes; use --dry-run otherwise")
		}
		submitter = cmd.flags.GitHubClients().Get(cfg.GitHub.Repo)
	}

	newWorker := func(s *schema.Schema, b batcher.Batch) runner.Worker {
		return runner.NewLocalWorker(s, b, rt, gitRepo, submitter)
	}

	r := runner.New(rt, newWorker,
		runner.WithPollInterval(cfg.Runner.PollInterval),
		runner.WithTimeout(cfg.Runner.Timeout),
	)

	result, err := r.Run(ctx, sch)
	if err != nil {
		return err
	}

	report := runReport{Run: result.ID, Schema: result.Schema}
	for _, res := range result.Results {
		br := batchReport{
			Title:   res.Batch.Metadata.Title,
			Outcome: string(res.Outcome),
		}
		if res.Change != nil {
			br.Change = res.Change.ID
		}
		if res.Err != nil {
			br.Error = res.Err.Error()
		}
		report.Batches = append(report.Batches, br)
	}

	if err := iojson.Write(report); err != nil {
		return err
	}

	if result.Failed() {
		return fmt.Errorf("%d of %d batches did not complete",
			result.Count(runner.OutcomeFailed)+result.Count(runner.OutcomeKilled),
			len(result.Results))
	}
	return nil
}
