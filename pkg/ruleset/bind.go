package ruleset

import (
	"fmt"

	"github.com/chesedcore/evesses/pkg/effect"
	"github.com/chesedcore/evesses/pkg/engine"
	"github.com/chesedcore/evesses/pkg/event"
	"github.com/chesedcore/evesses/pkg/opt"
)

// Bind compiles the scenario into engine registrations and returns the
// declared effects in activation order. The caller activates them and
// resolves the chain:
//
//	effects, err := scn.Bind(eng)
//	for _, eff := range effects {
//	    _ = eng.ActivateEffect(eff, ctx) // request failures are part of the scenario
//	}
//	err = eng.ResolveChain(ctx)
func (s *Scenario) Bind(eng *engine.Engine) ([]*effect.Effect, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if s.MaxChainIterations > 0 {
		eng.SetMaxChainIterations(s.MaxChainIterations)
	}
	eng.SetSegocSorter(sorterFor(s.Segoc))

	for _, sc := range s.Scopes {
		eng.Timing(sc.Name, sc.Layer)
	}

	for _, decl := range s.Floodgates {
		if err := bindFloodgate(eng, decl); err != nil {
			return nil, fmt.Errorf("floodgate %q: %w", decl.Name, err)
		}
	}

	for _, decl := range s.Triggers {
		bindTrigger(eng, decl)
	}

	effects := make([]*effect.Effect, 0, len(s.Effects))
	for _, decl := range s.Effects {
		effects = append(effects, bindEffect(eng, decl))
	}
	return effects, nil
}

// sorterFor maps a policy name to its sorter. Validate has already
// rejected unknown names.
func sorterFor(policy string) engine.SegocSorter {
	switch policy {
	case SegocLayer:
		return engine.SegocByLayer
	case SegocReverse:
		return engine.SegocReverse
	default:
		return engine.SegocIdentity
	}
}

// emitAction builds an action that emits the declared events. A failing
// declaration reports "did nothing" while still emitting, so scenarios
// can exercise if-you-do gating.
func emitAction(decls []EventDecl, fail bool) effect.ActionFunc {
	return func(ctx effect.Context, targets any) (*event.ActionResult, error) {
		events := make([]*event.TimingEvent, 0, len(decls))
		for _, d := range decls {
			events = append(events, event.NewWithData(d.Timing, d.Layer, copyData(d.Data)))
		}
		return &event.ActionResult{Succeeded: !fail, Events: events}, nil
	}
}

// copyData keeps activations from sharing one mutable payload map.
func copyData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func bindEffect(eng *engine.Engine, decl EffectDecl) *effect.Effect {
	b := eng.DirectEffect().Name(decl.Name)
	for _, tag := range decl.Tags {
		b.Tag(tag)
	}
	if decl.OncePerTurn != "" {
		b.OncePerTurn(decl.OncePerTurn)
	}
	b.Action(emitAction(decl.Events, decl.Fail))

	for _, step := range decl.Steps {
		action := emitAction(step.Events, step.Fail)
		switch step.Kind {
		case StepAnd:
			b.AndAlso(action)
		case StepAndThen:
			b.AndThen(action)
		case StepAndIfYouDo:
			b.AndIfYouDo(action)
		case StepAndThenIfYouDo:
			b.AndThenIfYouDo(action)
		}
	}
	return b.Build()
}

func bindTrigger(eng *engine.Engine, decl TriggerDecl) {
	layer := decl.Layer
	if layer == 0 {
		layer = 1
	}
	b := eng.OnTiming(decl.Timing).Name(decl.Name).Layer(layer)
	if decl.Optional {
		b.Optional()
	}
	if decl.OncePerTurn != "" {
		b.OncePerTurn(decl.OncePerTurn)
	}
	b.Action(emitAction(decl.Events, false))
	b.Build()
}

func bindFloodgate(eng *engine.Engine, decl FloodgateDecl) error {
	b := eng.Floodgate().Name(decl.Name)
	if decl.Layer != 0 {
		b.Layer(decl.Layer)
	}

	switch decl.Kind {
	case KindForbid:
		tag := decl.Tag
		b.Forbid(func(ctx effect.Context, eff *effect.Effect) bool {
			return eff.HasTag(tag)
		})
	case KindModify:
		match := decl.MatchTiming
		setTiming := decl.SetTiming
		setLayer := decl.SetLayer
		b.Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			if match != "" && ev.Timing != match {
				return opt.None[*event.TimingEvent]()
			}
			out := ev.Clone()
			if setTiming != "" {
				out.Timing = setTiming
			}
			if setLayer != nil {
				out.Layer = *setLayer
			}
			return opt.Some(out)
		})
	case KindReplace:
		b.Replace(func(ctx effect.Context, sub effect.Substitution) opt.Option[effect.Substitution] {
			noop := func(ctx effect.Context, targets any) (*event.ActionResult, error) {
				return event.None(), nil
			}
			return opt.Some(effect.Substitution{Action: noop})
		})
	}

	_, err := b.Build()
	return err
}
