package engine

import (
	"errors"

	"github.com/chesedcore/evesses/pkg/effect"
	"github.com/chesedcore/evesses/pkg/event"
	"github.com/chesedcore/evesses/pkg/opt"
)

// negatedTiming is the synthetic marker event committed when an effect is
// negated mid-resolution.
const negatedTiming = "effect_negated"

// negatedLayer is the layer the marker event is committed on.
const negatedLayer = 2

// resolutionPhase resolves one chain entry: the main action through the
// floodgate pipeline, negation branching, compound steps, and finally the
// commit of the cumulative event list.
func (e *Engine) resolutionPhase(entry chainEntry) error {
	res, err := e.executeWithFloodgates(entry.eff.Action, entry.targets, entry.ctx)
	if err != nil {
		var negated *EffectNegatedError
		switch {
		case IsActivationNegated(err):
			// The effect never happened. Nothing is committed.
			return err
		case errors.As(err, &negated):
			// Resolved to nothing: commit just the marker event.
			marker := event.NewWithData(negatedTiming, negatedLayer, map[string]any{
				"effect": entry.eff,
				"reason": negated.Reason,
			})
			e.commit([]*event.TimingEvent{marker})
			return nil
		default:
			return err
		}
	}

	events := make([]*event.TimingEvent, 0, len(res.Events))
	events = append(events, res.Events...)

	prevSucceeded := res.Succeeded
	prevErrored := false

	for i, step := range entry.eff.Steps {
		if !shouldExecuteStep(step.Kind, prevSucceeded, prevErrored) {
			continue
		}

		stepRes, stepErr := e.executeWithFloodgates(step.Action, entry.targets, entry.ctx)
		if stepErr != nil {
			var negated *EffectNegatedError
			if errors.As(stepErr, &negated) {
				marker := event.NewWithData(negatedTiming, negatedLayer, map[string]any{
					"effect":         entry.eff,
					"compound_index": i,
					"reason":         negated.Reason,
				})
				events = append(events, marker)
			}
			// Step errors never abort the enclosing effect; they only
			// gate subsequent conditional steps.
			prevSucceeded = false
			prevErrored = true
			continue
		}

		events = append(events, stepRes.Events...)
		prevSucceeded = stepRes.Succeeded
		prevErrored = false
	}

	e.commit(events)
	return nil
}

// shouldExecuteStep applies the CompoundKind table to the prior step's
// outcome.
func shouldExecuteStep(kind effect.CompoundKind, prevSucceeded, prevErrored bool) bool {
	switch kind {
	case effect.CompoundAnd:
		return true
	case effect.CompoundAndThen:
		return !prevErrored
	case effect.CompoundAndIfYouDo, effect.CompoundAndThenIfYouDo:
		return prevSucceeded
	default:
		return false
	}
}

// executeWithFloodgates runs an action through the resolution-phase
// floodgate pipeline: the replace pass substitutes the action and/or
// targets, the (possibly replaced) action executes, and the modify pass
// rewrites emitted events. Execution errors surface before the modify
// pass runs.
func (e *Engine) executeWithFloodgates(action effect.ActionFunc, targets any, ctx effect.Context) (*event.ActionResult, error) {
	// Replace pass. Later replacements see earlier substitutions.
	for _, fg := range e.floodgates {
		if fg.Phase != effect.PhaseResolution || fg.Kind != effect.KindReplace || fg.Replace == nil {
			continue
		}
		sub := effect.Substitution{Action: action, Targets: opt.Some(targets)}
		if out := fg.Replace(ctx, sub); out.IsSome() {
			replacement := out.Unwrap()
			if replacement.Action != nil {
				action = replacement.Action
			}
			if newTargets, ok := replacement.Targets.Get(); ok {
				targets = newTargets
			}
		}
	}

	// Execute. An effect with no action resolves to "did nothing".
	var res *event.ActionResult
	if action != nil {
		out, err := action(ctx, targets)
		if err != nil {
			return nil, err
		}
		res = out
	}
	if res == nil {
		res = event.None()
	}

	// Modify pass, over every emitted event in floodgate order.
	for _, fg := range e.floodgates {
		if fg.Phase != effect.PhaseResolution || fg.Kind != effect.KindModify || fg.Modify == nil {
			continue
		}
		for i, ev := range res.Events {
			if out := fg.Modify(ctx, ev); out.IsSome() {
				res.Events[i] = out.Unwrap()
			}
		}
	}

	return res, nil
}

// commit finalizes a list of events: each receives a scope-stack snapshot
// and the next monotonic timestamp, is appended to the history, and is
// matched against active triggers. Matching triggers are queued as
// pending responses at most once per batch. Commit cannot fail.
func (e *Engine) commit(events []*event.TimingEvent) {
	for _, ev := range events {
		ev.Scopes = e.scopes.Clone()
		ev.Timestamp = e.nextTimestamp
		e.nextTimestamp++
		e.history = append(e.history, ev)

		// Triggers are scanned in registration order; request order
		// within a batch is the SEGOC sorter's business.
		for _, t := range e.triggers {
			if t.Timing != ev.Timing || t.Layer != ev.Layer {
				continue
			}
			if t.Filter != nil && !t.Filter(ev) {
				continue
			}
			if _, queued := e.pendingSet[t.ID]; queued {
				continue
			}
			e.pendingSet[t.ID] = struct{}{}
			e.pending = append(e.pending, t)
		}
	}
}
