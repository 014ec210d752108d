package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/command"
	"github.com/fxchen/autotransform/internal/core/condition"
	"github.com/fxchen/autotransform/internal/core/filter"
	"github.com/fxchen/autotransform/internal/core/input"
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/internal/core/step"
	"github.com/fxchen/autotransform/internal/core/transformer"
	"github.com/fxchen/autotransform/pkg/iojson"
)

type SchemaCmd struct {
	flags  *Flags
	reader iojson.FileReader[json.RawMessage]
}

// NewSchemaCmd creates a new schema command.
func NewSchemaCmd(flags *Flags) *SchemaCmd {
	return &SchemaCmd{flags: flags}
}

// Register adds the schema command to the application.
func (cmd *SchemaCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "schema",
		Usage: "Schema management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate a serialized schema",
				UsageText:   "autotransform schema validate [options]",
				Description: "Decodes the schema, checks every component against its registry, and verifies the schema survives an encode/decode round trip.",
				Flags: []cli.Flag{
					cmd.reader.Flag(),
				},
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

// validateReport is the JSON result of schema validation.
type validateReport struct {
	Valid  bool   `json:"valid"`
	Schema string `json:"schema,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (cmd *SchemaCmd) runValidate(ctx context.Context, c *cli.Command) error {
	report, err := cmd.validate()
	if werr := iojson.Write(report); werr != nil {
		return werr
	}
	return err
}

func (cmd *SchemaCmd) validate() (validateReport, error) {
	fail := func(err error) (validateReport, error) {
		return validateReport{Valid: false, Error: err.Error()}, err
	}

	if err := validateRegistries(); err != nil {
		return fail(err)
	}

	raw, err := cmd.reader.Read()
	if err != nil {
		return fail(err)
	}

	sch, err := schema.Decode(raw)
	if err != nil {
		return fail(err)
	}

	encoded, err := json.Marshal(sch)
	if err != nil {
		return fail(fmt.Errorf("re-encode schema: %w", err))
	}
	again, err := schema.Decode(encoded)
	if err != nil {
		return fail(fmt.Errorf("decode re-encoded schema: %w", err))
	}
	if !reflect.DeepEqual(sch, again) {
		return fail(fmt.Errorf("schema %q does not survive an encode/decode round trip", sch.Name))
	}

	return validateReport{Valid: true, Schema: sch.Name}, nil
}

// validateRegistries self-checks every component family: the registered
// non-custom names must exactly match each family's declared list.
func validateRegistries() error {
	checks := []error{
		input.Factory.Validate(input.Names),
		filter.Factory.Validate(filter.Names),
		batcher.Factory.Validate(batcher.Names),
		transformer.Factory.Validate(transformer.Names),
		command.Factory.Validate(command.Names),
		item.Factory.Validate(item.Names),
		change.Factory.Validate(change.Names),
		condition.Factory.Validate(condition.Names),
		step.Factory.Validate(step.Names),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
