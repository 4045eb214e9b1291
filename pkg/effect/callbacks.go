package effect

import (
	"github.com/chesedcore/evesses/pkg/event"
	"github.com/chesedcore/evesses/pkg/opt"
)

// Context is the opaque host game context threaded through every callback.
// The engine never inspects it.
type Context = any

// ConstraintFunc checks whether an effect may be requested.
// A nil return means the constraint passed.
type ConstraintFunc func(ctx Context) error

// CostFunc pays (or probes, for cost checkers) an activation cost.
// Cost checkers must not mutate host state; costs may.
type CostFunc func(ctx Context) error

// TargetFunc selects the targets an effect acts on. The returned value is
// opaque to the engine and handed to the action unchanged.
type TargetFunc func(ctx Context) (any, error)

// ActionFunc performs an effect's work against the selected targets.
type ActionFunc func(ctx Context, targets any) (*event.ActionResult, error)

// FilterFunc decides whether a trigger responds to a committed event.
type FilterFunc func(e *event.TimingEvent) bool

// ForbidFunc is a request-phase floodgate predicate. Returning true fails
// the activation.
type ForbidFunc func(ctx Context, eff *Effect) bool

// ModifyFunc is a resolution-phase floodgate that transforms a timing
// event. An empty Option means leave the event unchanged.
type ModifyFunc func(ctx Context, e *event.TimingEvent) opt.Option[*event.TimingEvent]

// Substitution is the action/target pair a Replace floodgate operates on.
// A nil Action keeps the current action; an empty Targets Option keeps the
// current targets.
type Substitution struct {
	Action  ActionFunc
	Targets opt.Option[any]
}

// ReplaceFunc is a resolution-phase floodgate that substitutes the action
// and/or target set before execution. An empty Option means no substitution.
type ReplaceFunc func(ctx Context, sub Substitution) opt.Option[Substitution]
