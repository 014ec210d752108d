package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/fxchen/autotransform/internal/core/registry"
	"github.com/fxchen/autotransform/internal/core/step"
	"github.com/fxchen/autotransform/pkg/iojson"
)

type ManageCmd struct {
	flags  *Flags
	reader iojson.FileReader[[]registry.Bundle]
}

// NewManageCmd creates a new manage command.
func NewManageCmd(flags *Flags) *ManageCmd {
	return &ManageCmd{flags: flags}
}

// Register adds the manage command to the application.
func (cmd *ManageCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "manage",
		Usage:       "Run one change-management cycle over outstanding changes",
		UsageText:   "autotransform manage [options]",
		Description: "Reads an ordered list of serialized steps, lists this tool's open pull requests, and executes the first matching action per change.",
		Flags: []cli.Flag{
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

// manageReport is the JSON result written for a management cycle.
type manageReport struct {
	Changes []changeReport `json:"changes"`
}

type changeReport struct {
	Change  string   `json:"change"`
	State   string   `json:"state"`
	Actions []string `json:"actions,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (cmd *ManageCmd) run(ctx context.Context, c *cli.Command) error {
	bundles, err := cmd.reader.Read()
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		return fmt.Errorf("no steps provided")
	}

	steps := make([]step.Step, len(bundles))
	for i, b := range bundles {
		s, err := step.Factory.Get(b)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		steps[i] = s
	}

	cfg := cmd.flags.Config
	if cfg.GitHub.Repo == "" {
		return fmt.Errorf("github.repo must be configured")
	}

	rt := newRuntime(".")
	client := cmd.flags.GitHubClients().Get(cfg.GitHub.Repo)
	engine := step.NewEngine(steps, client, rt.Handler())

	changes, err := client.ListOpenChanges(ctx)
	if err != nil {
		return err
	}

	report := manageReport{}
	failed := 0
	for _, ch := range changes {
		ch.State = client.RefreshState(ctx, ch)

		cr := changeReport{Change: ch.ID, State: string(ch.State)}
		actions, err := engine.Process(ctx, ch)
		for _, a := range actions {
			cr.Actions = append(cr.Actions, string(a))
		}
		if err != nil {
			cr.Error = err.Error()
			failed++
		}
		report.Changes = append(report.Changes, cr)
	}

	if err := iojson.Write(report); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d changes failed", failed, len(changes))
	}
	return nil
}
