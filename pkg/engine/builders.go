package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chesedcore/evesses/pkg/effect"
)

// DirectEffect starts building a player- or rule-initiated effect.
// Build returns the finished effect; it is not registered anywhere.
// Pass it to ActivateEffect.
func (e *Engine) DirectEffect() *EffectBuilder {
	return &EffectBuilder{engine: e, eff: &effect.Effect{}}
}

// OnTiming starts building a trigger that responds to the named timing on
// layer 1. Use Layer to target another layer. Build registers the trigger
// into the active set.
func (e *Engine) OnTiming(timing string) *TriggerBuilder {
	return &TriggerBuilder{
		engine: e,
		trigger: &effect.Trigger{
			Timing: timing,
			Layer:  1,
			Effect: &effect.Effect{},
		},
	}
}

// Floodgate starts building a floodgate. Exactly one of Forbid, Modify, or
// Replace must be supplied before Build, which registers it.
func (e *Engine) Floodgate() *FloodgateBuilder {
	return &FloodgateBuilder{engine: e, fg: &effect.Floodgate{Layer: 1}}
}

// EffectBuilder assembles an Effect fluently. Every method returns the
// builder; Build finalizes.
type EffectBuilder struct {
	engine *Engine
	eff    *effect.Effect
}

// Name sets the effect's display name.
func (b *EffectBuilder) Name(name string) *EffectBuilder {
	b.eff.Name = name
	return b
}

// Tag adds a tag to the effect.
func (b *EffectBuilder) Tag(tag string) *EffectBuilder {
	b.eff.AddTag(tag)
	return b
}

// Constraint appends a request-phase constraint.
func (b *EffectBuilder) Constraint(fn effect.ConstraintFunc) *EffectBuilder {
	b.eff.Constraints = append(b.eff.Constraints, fn)
	return b
}

// OncePerTurn appends a constraint that both checks and marks a
// once-per-turn slot during the request phase. With no key, the effect's
// name is used if Name was called before OncePerTurn; otherwise a fresh
// unique key is generated. Either way every activation of the built
// effect shares the slot. Because the mark happens at request
// time, a negated or failed activation still consumes it.
func (b *EffectBuilder) OncePerTurn(key ...string) *EffectBuilder {
	k := b.constraintKey(key)
	eng := b.engine
	return b.Constraint(func(ctx effect.Context) error {
		if err := eng.CheckOncePerTurn(k); err != nil {
			return err
		}
		eng.MarkUsed(k)
		return nil
	})
}

// TimesPerTurn appends a constraint that allows at most n activations per
// turn, checking and counting at request time.
func (b *EffectBuilder) TimesPerTurn(n int, key ...string) *EffectBuilder {
	k := b.constraintKey(key)
	eng := b.engine
	return b.Constraint(func(ctx effect.Context) error {
		if err := eng.CheckTimesPerTurn(k, n); err != nil {
			return err
		}
		eng.IncrementUsage(k)
		return nil
	})
}

// constraintKey picks the caller's key or generates a stable one.
func (b *EffectBuilder) constraintKey(key []string) string {
	if len(key) > 0 && key[0] != "" {
		return key[0]
	}
	if b.eff.Name != "" {
		return b.eff.Name
	}
	return uuid.NewString()
}

// Cost sets the mutating cost callback.
func (b *EffectBuilder) Cost(fn effect.CostFunc) *EffectBuilder {
	b.eff.Cost = fn
	return b
}

// CostChecker sets the non-mutating cost probe.
func (b *EffectBuilder) CostChecker(fn effect.CostFunc) *EffectBuilder {
	b.eff.CostChecker = fn
	return b
}

// Target sets the target selector.
func (b *EffectBuilder) Target(fn effect.TargetFunc) *EffectBuilder {
	b.eff.Target = fn
	return b
}

// Action sets the primary action.
func (b *EffectBuilder) Action(fn effect.ActionFunc) *EffectBuilder {
	b.eff.Action = fn
	return b
}

// AndAlso appends a compound step that always executes.
func (b *EffectBuilder) AndAlso(fn effect.ActionFunc) *EffectBuilder {
	return b.step(effect.CompoundAnd, fn)
}

// AndThen appends a compound step that executes iff the prior step did
// not error.
func (b *EffectBuilder) AndThen(fn effect.ActionFunc) *EffectBuilder {
	return b.step(effect.CompoundAndThen, fn)
}

// AndIfYouDo appends a compound step that executes iff the prior step
// reported a "did something" success.
func (b *EffectBuilder) AndIfYouDo(fn effect.ActionFunc) *EffectBuilder {
	return b.step(effect.CompoundAndIfYouDo, fn)
}

// AndThenIfYouDo appends a compound step with AndIfYouDo semantics under
// its own reporting tag.
func (b *EffectBuilder) AndThenIfYouDo(fn effect.ActionFunc) *EffectBuilder {
	return b.step(effect.CompoundAndThenIfYouDo, fn)
}

func (b *EffectBuilder) step(kind effect.CompoundKind, fn effect.ActionFunc) *EffectBuilder {
	b.eff.Steps = append(b.eff.Steps, effect.CompoundStep{Kind: kind, Action: fn})
	return b
}

// BindLifetime ties the effect to a host lifetime.
func (b *EffectBuilder) BindLifetime(lt effect.Lifetime) *EffectBuilder {
	b.eff.Lifetime = lt
	return b
}

// Build finalizes and returns the effect.
func (b *EffectBuilder) Build() *effect.Effect {
	return b.eff
}

// TriggerBuilder assembles and registers a Trigger.
type TriggerBuilder struct {
	engine  *Engine
	trigger *effect.Trigger
}

// Name sets the trigger's display name; the embedded effect inherits it
// unless named separately.
func (b *TriggerBuilder) Name(name string) *TriggerBuilder {
	b.trigger.Name = name
	if b.trigger.Effect.Name == "" {
		b.trigger.Effect.Name = name
	}
	return b
}

// Layer sets the event layer this trigger matches.
func (b *TriggerBuilder) Layer(layer int) *TriggerBuilder {
	b.trigger.Layer = layer
	return b
}

// Filter narrows matching events beyond timing and layer.
func (b *TriggerBuilder) Filter(fn effect.FilterFunc) *TriggerBuilder {
	b.trigger.Filter = fn
	return b
}

// Optional makes the activation player-gated.
func (b *TriggerBuilder) Optional() *TriggerBuilder {
	b.trigger.Optional = true
	return b
}

// Mandatory makes the activation fire unconditionally. This is the
// default.
func (b *TriggerBuilder) Mandatory() *TriggerBuilder {
	b.trigger.Optional = false
	return b
}

// OncePerTurn limits the trigger's effect to one request per turn.
func (b *TriggerBuilder) OncePerTurn(key ...string) *TriggerBuilder {
	eb := &EffectBuilder{engine: b.engine, eff: b.trigger.Effect}
	eb.OncePerTurn(key...)
	return b
}

// Action sets the primary action of the trigger's effect.
func (b *TriggerBuilder) Action(fn effect.ActionFunc) *TriggerBuilder {
	b.trigger.Effect.Action = fn
	return b
}

// AndThen appends an AndThen compound step to the trigger's effect.
func (b *TriggerBuilder) AndThen(fn effect.ActionFunc) *TriggerBuilder {
	b.trigger.Effect.Steps = append(b.trigger.Effect.Steps,
		effect.CompoundStep{Kind: effect.CompoundAndThen, Action: fn})
	return b
}

// BindLifetime unregisters the trigger when the lifetime expires.
func (b *TriggerBuilder) BindLifetime(lt effect.Lifetime) *TriggerBuilder {
	b.trigger.Lifetime = lt
	return b
}

// Build registers the trigger into the active set and returns it.
func (b *TriggerBuilder) Build() *effect.Trigger {
	b.engine.registerTrigger(b.trigger)
	return b.trigger
}

// FloodgateBuilder assembles and registers a Floodgate.
type FloodgateBuilder struct {
	engine   *Engine
	fg       *effect.Floodgate
	kinds    int
	phaseSet bool
}

// Name sets the floodgate's display name, used as the ActionForbidden
// reason.
func (b *FloodgateBuilder) Name(name string) *FloodgateBuilder {
	b.fg.Name = name
	return b
}

// Phase overrides the phase implied by the kind.
func (b *FloodgateBuilder) Phase(p effect.Phase) *FloodgateBuilder {
	b.fg.Phase = p
	b.phaseSet = true
	return b
}

// Layer sets the application-order layer.
func (b *FloodgateBuilder) Layer(layer int) *FloodgateBuilder {
	b.fg.Layer = layer
	return b
}

// Forbid makes this a request-phase forbid floodgate.
func (b *FloodgateBuilder) Forbid(fn effect.ForbidFunc) *FloodgateBuilder {
	b.fg.Kind = effect.KindForbid
	b.fg.Forbid = fn
	if !b.phaseSet {
		b.fg.Phase = effect.PhaseRequest
	}
	b.kinds++
	return b
}

// Modify makes this a resolution-phase modify floodgate.
func (b *FloodgateBuilder) Modify(fn effect.ModifyFunc) *FloodgateBuilder {
	b.fg.Kind = effect.KindModify
	b.fg.Modify = fn
	if !b.phaseSet {
		b.fg.Phase = effect.PhaseResolution
	}
	b.kinds++
	return b
}

// Replace makes this a resolution-phase replace floodgate.
func (b *FloodgateBuilder) Replace(fn effect.ReplaceFunc) *FloodgateBuilder {
	b.fg.Kind = effect.KindReplace
	b.fg.Replace = fn
	if !b.phaseSet {
		b.fg.Phase = effect.PhaseResolution
	}
	b.kinds++
	return b
}

// BindLifetime unregisters the floodgate when the lifetime expires.
func (b *FloodgateBuilder) BindLifetime(lt effect.Lifetime) *FloodgateBuilder {
	b.fg.Lifetime = lt
	return b
}

// Build registers the floodgate and returns it. It fails unless exactly
// one of Forbid, Modify, or Replace was supplied.
func (b *FloodgateBuilder) Build() (*effect.Floodgate, error) {
	if b.kinds != 1 {
		return nil, fmt.Errorf("floodgate needs exactly one of Forbid, Modify, or Replace, got %d", b.kinds)
	}
	b.engine.registerFloodgate(b.fg)
	return b.fg, nil
}
