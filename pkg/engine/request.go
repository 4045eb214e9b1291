package engine

import (
	"go.uber.org/zap"

	"github.com/chesedcore/evesses/pkg/effect"
)

// requestPhase validates an activation and pushes it onto the chain stack.
//
// Order matters and is part of the public contract: constraints, then
// forbid floodgates, then the non-mutating cost probe, then the mutating
// cost payment, then target selection. A failure at any step returns the
// step's error and leaves the chain stack untouched. Constraint marks and
// a partially paid cost are NOT undone; costs must fail before mutating or
// mutate atomically.
func (e *Engine) requestPhase(eff *effect.Effect, ctx effect.Context) error {
	// 1. Constraints, in declared order. Nil entries are skipped with a
	// warning rather than failing the activation.
	for i, constraint := range eff.Constraints {
		if constraint == nil {
			e.logger.Warn("skipping nil constraint",
				zap.String("effect", eff.String()),
				zap.Int("index", i))
			continue
		}
		if err := constraint(ctx); err != nil {
			return err
		}
	}

	// 2. Request-phase forbid floodgates, in (layer, insertion) order.
	// The first predicate that fires wins.
	for _, fg := range e.floodgates {
		if fg.Phase != effect.PhaseRequest || fg.Kind != effect.KindForbid {
			continue
		}
		if fg.Forbid != nil && fg.Forbid(ctx, eff) {
			reason := fg.Name
			if reason == "" {
				reason = "forbidden by active floodgate"
			}
			return &ActionForbiddenError{Reason: reason, FloodgateRef: fg.ID}
		}
	}

	// 3. Cost probe. The checker must not mutate; when unset, the cost
	// itself serves as the probe contract.
	probe := eff.CostChecker
	if probe == nil {
		probe = eff.Cost
	}
	if probe != nil {
		if err := probe(ctx); err != nil {
			return err
		}
	}

	// 4. Cost payment. Once paid the cost is not refunded, even if the
	// effect is later negated.
	if eff.Cost != nil {
		if err := eff.Cost(ctx); err != nil {
			return err
		}
	}

	// 5. Target selection.
	var targets any
	if eff.Target != nil {
		selected, err := eff.Target(ctx)
		if err != nil {
			return err
		}
		targets = selected
	}

	// 6. Push onto the chain stack.
	e.chain = append(e.chain, chainEntry{eff: eff, targets: targets, ctx: ctx})
	return nil
}
