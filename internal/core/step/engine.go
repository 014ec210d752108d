package step

import (
	"context"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/events"
)

// Actor executes step actions against the hosting system.
type Actor interface {
	Merge(ctx context.Context, ch change.Change) error
	Abandon(ctx context.Context, ch change.Change) error
	Comment(ctx context.Context, ch change.Change, body string) error
	Rerun(ctx context.Context, ch change.Change) error
}

// Engine evaluates an ordered step list against outstanding changes and
// executes the resulting actions.
type Engine struct {
	steps  []Step
	actor  Actor
	events events.Handler
}

// NewEngine creates an engine over the given ordered steps.
func NewEngine(steps []Step, actor Actor, handler events.Handler) *Engine {
	if handler == nil {
		handler = events.NopHandler{}
	}
	return &Engine{steps: steps, actor: actor, events: handler}
}

// Process evaluates the steps against one change in declared order and
// executes the first matching action (plus any earlier steps that opted
// into continuation). Changes in a terminal or unknown state are skipped:
// no action ever fires until an unknown state is resolved. Returns the
// actions that fired; no step matching is a valid no-op outcome.
func (e *Engine) Process(ctx context.Context, ch change.Change) ([]ActionType, error) {
	if ch.State != change.StateOpen {
		events.Debug(e.events, "skipping change not in open state", map[string]any{
			"change": ch.ID,
			"state":  string(ch.State),
		})
		return nil, nil
	}

	var fired []ActionType
	for _, s := range e.steps {
		action := s.Evaluate(ch)
		if action.Type != ActionNone {
			if err := e.execute(ctx, ch, action); err != nil {
				return fired, err
			}
			fired = append(fired, action.Type)
		}
		if action.StopSteps {
			break
		}
	}
	return fired, nil
}

func (e *Engine) execute(ctx context.Context, ch change.Change, action Action) error {
	events.Debug(e.events, "executing step action", map[string]any{
		"change": ch.ID,
		"action": string(action.Type),
	})

	switch action.Type {
	case ActionMerge:
		return e.actor.Merge(ctx, ch)
	case ActionAbandon:
		return e.actor.Abandon(ctx, ch)
	case ActionComment:
		return e.actor.Comment(ctx, ch, action.Comment)
	case ActionRerun:
		return e.actor.Rerun(ctx, ch)
	default:
		return fmt.Errorf("unsupported action %q", action.Type)
	}
}
