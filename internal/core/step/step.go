// Package step pairs conditions with the actions the change-management
// engine takes on outstanding changes.
package step

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/condition"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// NameConditional is the registered name for condition-gated steps.
const NameConditional = "conditional"

// ActionType identifies the operation a step performs when its condition
// passes.
type ActionType string

// Step actions. None leaves the change untouched; comment and rerun are
// non-terminal side effects that leave the change open.
const (
	ActionNone    ActionType = "none"
	ActionMerge   ActionType = "merge"
	ActionAbandon ActionType = "abandon"
	ActionComment ActionType = "comment"
	ActionRerun   ActionType = "rerun"
)

// ActionTypes lists every valid step action.
var ActionTypes = []ActionType{ActionAbandon, ActionComment, ActionMerge, ActionNone, ActionRerun}

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionNone, ActionMerge, ActionAbandon, ActionComment, ActionRerun:
		return true
	default:
		return false
	}
}

// Action is a step's verdict for one change: what to do and whether later
// steps still get a look.
type Action struct {
	Type      ActionType
	StopSteps bool
	// Comment carries the body for comment actions.
	Comment string
}

// Step decides what action to take for a change.
type Step interface {
	registry.Component
	Evaluate(ch change.Change) Action
}

// ConditionalStep fires its action when its condition passes. Unless
// ContinueIfPassed is set, a passing step stops evaluation of later steps
// ("first-applicable" policy).
type ConditionalStep struct {
	Action           ActionType
	Condition        condition.Condition
	Comment          string
	ContinueIfPassed bool
}

// NewConditionalStep validates the action type at construction.
func NewConditionalStep(action ActionType, cond condition.Condition) (*ConditionalStep, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("invalid step action %q", action)
	}
	if cond == nil {
		return nil, fmt.Errorf("step condition is required")
	}
	return &ConditionalStep{Action: action, Condition: cond}, nil
}

// Name returns the registered variant name.
func (s *ConditionalStep) Name() string { return NameConditional }

// Evaluate checks the change against the step's condition and returns the
// action to take.
func (s *ConditionalStep) Evaluate(ch change.Change) Action {
	if s.Condition.Check(ch) {
		return Action{Type: s.Action, StopSteps: !s.ContinueIfPassed, Comment: s.Comment}
	}
	return Action{Type: ActionNone, StopSteps: false}
}

// conditionalParams is the serialized form of a conditional step.
type conditionalParams struct {
	Action           ActionType      `json:"action"`
	Condition        registry.Bundle `json:"condition"`
	Comment          string          `json:"comment,omitempty"`
	ContinueIfPassed bool            `json:"continue_if_passed,omitempty"`
}

// MarshalJSON encodes the condition through its factory so the bundle
// round-trips.
func (s *ConditionalStep) MarshalJSON() ([]byte, error) {
	cond, err := registry.Encode(s.Condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionalParams{
		Action:           s.Action,
		Condition:        cond,
		Comment:          s.Comment,
		ContinueIfPassed: s.ContinueIfPassed,
	})
}

// Names lists every non-custom step variant.
var Names = []string{NameConditional}

// Factory reconstructs steps from serialized bundles.
var Factory = registry.New[Step]("step")

func init() {
	Factory.Register(NameConditional, func(params json.RawMessage) (Step, error) {
		var p conditionalParams
		if err := registry.DecodeStrict(params, &p); err != nil {
			return nil, err
		}

		cond, err := condition.Factory.Get(p.Condition)
		if err != nil {
			return nil, err
		}

		s, err := NewConditionalStep(p.Action, cond)
		if err != nil {
			return nil, err
		}
		s.Comment = p.Comment
		s.ContinueIfPassed = p.ContinueIfPassed
		return s, nil
	})
}
