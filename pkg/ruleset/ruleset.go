package ruleset

import (
	"errors"
	"fmt"
)

// Segoc policy names accepted in scenario files.
const (
	SegocFifo    = "fifo"
	SegocLayer   = "layer"
	SegocReverse = "reverse"
)

// Floodgate kind names accepted in scenario files.
const (
	KindForbid  = "forbid"
	KindModify  = "modify"
	KindReplace = "replace"
)

// Compound kind names accepted in scenario files.
const (
	StepAnd            = "and"
	StepAndThen        = "and_then"
	StepAndIfYouDo     = "and_if_you_do"
	StepAndThenIfYouDo = "and_then_if_you_do"
)

// Scenario is a complete declarative chain setup.
type Scenario struct {
	// Name identifies the scenario in exports and logs.
	Name string `yaml:"name" json:"name"`

	// Description is free-form documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// MaxChainIterations tunes the chain-loop cap. Zero keeps the
	// engine default.
	MaxChainIterations int `yaml:"max_chain_iterations,omitempty" json:"max_chain_iterations,omitempty"`

	// Segoc selects the pending-response ordering policy: fifo, layer,
	// or reverse. Empty means fifo.
	Segoc string `yaml:"segoc,omitempty" json:"segoc,omitempty"`

	// Scopes are opened in order before any effect activates.
	Scopes []ScopeDecl `yaml:"scopes,omitempty" json:"scopes,omitempty"`

	// Effects are activated in declared order, then resolved as one chain.
	Effects []EffectDecl `yaml:"effects" json:"effects"`

	// Triggers are registered before activation.
	Triggers []TriggerDecl `yaml:"triggers,omitempty" json:"triggers,omitempty"`

	// Floodgates are registered before activation.
	Floodgates []FloodgateDecl `yaml:"floodgates,omitempty" json:"floodgates,omitempty"`
}

// ScopeDecl opens one temporal scope.
type ScopeDecl struct {
	Name  string `yaml:"name" json:"name"`
	Layer int    `yaml:"layer" json:"layer"`
}

// EventDecl describes one timing event an action emits.
type EventDecl struct {
	Timing string         `yaml:"timing" json:"timing"`
	Layer  int            `yaml:"layer" json:"layer"`
	Data   map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

// StepDecl describes one compound step.
type StepDecl struct {
	Kind   string      `yaml:"kind" json:"kind"`
	Events []EventDecl `yaml:"events,omitempty" json:"events,omitempty"`

	// Fail makes the step's action report "did nothing" instead of
	// succeeding, for exercising if-you-do gating from data.
	Fail bool `yaml:"fail,omitempty" json:"fail,omitempty"`
}

// EffectDecl describes one effect to activate.
type EffectDecl struct {
	Name string   `yaml:"name" json:"name"`
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// OncePerTurn, when set, gates the effect on that constraint key.
	OncePerTurn string `yaml:"once_per_turn,omitempty" json:"once_per_turn,omitempty"`

	// Events are emitted by the main action.
	Events []EventDecl `yaml:"events,omitempty" json:"events,omitempty"`

	// Fail makes the main action report "did nothing".
	Fail bool `yaml:"fail,omitempty" json:"fail,omitempty"`

	// Steps are compound steps appended after the main action.
	Steps []StepDecl `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// TriggerDecl describes one trigger to register.
type TriggerDecl struct {
	Name     string `yaml:"name" json:"name"`
	Timing   string `yaml:"timing" json:"timing"`
	Layer    int    `yaml:"layer" json:"layer"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`

	// OncePerTurn, when set, gates the trigger's effect on that key.
	OncePerTurn string `yaml:"once_per_turn,omitempty" json:"once_per_turn,omitempty"`

	// Events are emitted when the trigger's effect resolves.
	Events []EventDecl `yaml:"events,omitempty" json:"events,omitempty"`
}

// FloodgateDecl describes one floodgate to register.
type FloodgateDecl struct {
	Name  string `yaml:"name" json:"name"`
	Kind  string `yaml:"kind" json:"kind"`
	Layer int    `yaml:"layer" json:"layer"`

	// Tag selects the effects a forbid floodgate rejects.
	Tag string `yaml:"tag,omitempty" json:"tag,omitempty"`

	// MatchTiming limits a modify floodgate to events with this timing.
	// Empty matches every event.
	MatchTiming string `yaml:"match_timing,omitempty" json:"match_timing,omitempty"`

	// SetTiming renames matched events. Empty leaves the timing alone.
	SetTiming string `yaml:"set_timing,omitempty" json:"set_timing,omitempty"`

	// SetLayer moves matched events to another layer when non-nil.
	// Replace floodgates declared in scenario files substitute a no-op
	// action, suppressing whatever would have executed while active.
	SetLayer *int `yaml:"set_layer,omitempty" json:"set_layer,omitempty"`
}

// Validate checks the scenario for structural problems before binding.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name cannot be empty")
	}
	if s.MaxChainIterations < 0 {
		return fmt.Errorf("max_chain_iterations cannot be negative, got %d", s.MaxChainIterations)
	}
	switch s.Segoc {
	case "", SegocFifo, SegocLayer, SegocReverse:
	default:
		return fmt.Errorf("unknown segoc policy %q", s.Segoc)
	}

	for i, eff := range s.Effects {
		if eff.Name == "" {
			return fmt.Errorf("effect %d: name cannot be empty", i)
		}
		for j, ev := range eff.Events {
			if ev.Timing == "" {
				return fmt.Errorf("effect %q event %d: timing cannot be empty", eff.Name, j)
			}
		}
		for j, step := range eff.Steps {
			switch step.Kind {
			case StepAnd, StepAndThen, StepAndIfYouDo, StepAndThenIfYouDo:
			default:
				return fmt.Errorf("effect %q step %d: unknown kind %q", eff.Name, j, step.Kind)
			}
		}
	}

	for i, t := range s.Triggers {
		if t.Timing == "" {
			return fmt.Errorf("trigger %d (%s): timing cannot be empty", i, t.Name)
		}
	}

	for i, fg := range s.Floodgates {
		switch fg.Kind {
		case KindForbid:
			if fg.Tag == "" {
				return fmt.Errorf("floodgate %d (%s): forbid needs a tag", i, fg.Name)
			}
		case KindModify:
			if fg.SetTiming == "" && fg.SetLayer == nil {
				return fmt.Errorf("floodgate %d (%s): modify needs set_timing or set_layer", i, fg.Name)
			}
		case KindReplace:
		default:
			return fmt.Errorf("floodgate %d (%s): unknown kind %q", i, fg.Name, fg.Kind)
		}
	}

	return nil
}
