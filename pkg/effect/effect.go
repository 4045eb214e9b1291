package effect

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CompoundKind selects how a compound step's execution depends on the
// outcome of the step before it.
type CompoundKind int

const (
	// CompoundAnd always executes, irrespective of the prior step.
	CompoundAnd CompoundKind = iota
	// CompoundAndThen executes iff the prior step did not error.
	CompoundAndThen
	// CompoundAndIfYouDo executes iff the prior step reported a
	// "did something" success.
	CompoundAndIfYouDo
	// CompoundAndThenIfYouDo resolves exactly like CompoundAndIfYouDo.
	// It is kept as a distinct tag so hosts can report the wording used
	// on the card text that declared it.
	CompoundAndThenIfYouDo
)

// String returns the string representation of the CompoundKind.
func (k CompoundKind) String() string {
	switch k {
	case CompoundAnd:
		return "And"
	case CompoundAndThen:
		return "AndThen"
	case CompoundAndIfYouDo:
		return "AndIfYouDo"
	case CompoundAndThenIfYouDo:
		return "AndThenIfYouDo"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// CompoundStep is a secondary action attached to an effect, executed after
// the main action according to its kind.
type CompoundStep struct {
	Kind   CompoundKind
	Action ActionFunc
}

// Effect bundles everything the engine needs to request and resolve one
// activation: gating constraints, a cost and its non-mutating probe, a
// target selector, the primary action, and any compound steps.
//
// Effects are usually assembled through the engine's EffectBuilder rather
// than constructed directly.
type Effect struct {
	// Name identifies the effect in logs and error messages. Optional.
	Name string

	// Tags is the effect's tag set; floodgates commonly key off it.
	Tags map[string]struct{}

	// Constraints are evaluated in order during the request phase.
	// The first failure aborts the activation.
	Constraints []ConstraintFunc

	// Cost mutates the host to pay the activation cost. Once paid it is
	// not refunded, even if the effect is later negated.
	Cost CostFunc

	// CostChecker probes whether the cost could be paid without mutating
	// the host. When nil, Cost is used as the probe.
	CostChecker CostFunc

	// Target selects targets before the effect is pushed onto the chain.
	Target TargetFunc

	// Action is the primary action run during resolution.
	Action ActionFunc

	// Steps are compound steps run after the main action, in order.
	Steps []CompoundStep

	// Lifetime optionally ties the effect to a host object. It is carried
	// for symmetry with triggers and floodgates; the engine itself only
	// unregisters registered items.
	Lifetime Lifetime
}

// AddTag adds a tag to the effect's tag set.
func (e *Effect) AddTag(tag string) {
	if e.Tags == nil {
		e.Tags = make(map[string]struct{})
	}
	e.Tags[tag] = struct{}{}
}

// HasTag reports whether the effect carries the given tag.
func (e *Effect) HasTag(tag string) bool {
	_, ok := e.Tags[tag]
	return ok
}

// MarshalJSON renders the effect's identifying surface. Callbacks are not
// serializable, so only name, tags, and step count appear; this keeps
// histories whose marker events reference an effect exportable.
func (e *Effect) MarshalJSON() ([]byte, error) {
	tags := make([]string, 0, len(e.Tags))
	for tag := range e.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return json.Marshal(struct {
		Name  string   `json:"name,omitempty"`
		Tags  []string `json:"tags,omitempty"`
		Steps int      `json:"steps,omitempty"`
	}{Name: e.Name, Tags: tags, Steps: len(e.Steps)})
}

// String returns a short human-readable description of the effect.
func (e *Effect) String() string {
	name := e.Name
	if name == "" {
		name = "effect"
	}
	return fmt.Sprintf("Effect[%s steps=%d]", name, len(e.Steps))
}
