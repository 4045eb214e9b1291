package engine

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chesedcore/evesses/pkg/effect"
)

// ResolveChain drains the chain stack and the pending-response queue to
// quiescence. Entries pop LIFO; committed events match triggers into the
// pending queue; the SEGOC sorter orders each pending batch before its
// triggers are requested back onto the stack; and the loop repeats until
// both are empty.
//
// Per-entry negations are absorbed: an ActivationNegated resolution simply
// skips that entry, and an EffectNegated resolution commits its marker and
// counts as resolved. Any other resolution error stops the drain and is
// returned. The loop fails with InfiniteLoopError once it exceeds the
// configured iteration cap.
func (e *Engine) ResolveChain(ctx effect.Context) error {
	if e.inCallback {
		return ErrReentrantCall
	}
	e.inCallback = true
	defer func() { e.inCallback = false }()

	iterations := 0
	for len(e.chain) > 0 || len(e.pending) > 0 {
		iterations++
		e.lastResolveIterations = iterations
		if iterations > e.maxIterations {
			return &InfiniteLoopError{Iterations: iterations}
		}

		for len(e.chain) > 0 {
			top := len(e.chain) - 1
			entry := e.chain[top]
			e.chain = e.chain[:top]

			if err := e.resolutionPhase(entry); err != nil {
				if IsActivationNegated(err) {
					continue
				}
				return err
			}
		}

		if len(e.pending) == 0 {
			continue
		}

		batch := make([]*effect.Trigger, len(e.pending))
		copy(batch, e.pending)
		e.pending = e.pending[:0]
		e.pendingSet = make(map[uuid.UUID]struct{}, len(batch))

		batch = e.segoc(batch)

		for _, t := range batch {
			if t.Optional && !e.promptOptional(t) {
				continue
			}
			if err := e.requestPhase(t.Effect, ctx); err != nil {
				// A trigger whose request fails is skipped; the rest
				// of the batch still gets its shot.
				e.logger.Warn("trigger request failed, skipping",
					zap.String("trigger", t.String()),
					zap.Error(err))
				continue
			}
		}
	}

	return nil
}

// SegocIdentity requests pending triggers in the order they matched.
func SegocIdentity(batch []*effect.Trigger) []*effect.Trigger {
	return batch
}

// SegocByLayer requests mandatory triggers before optional ones, ordering
// each group by ascending layer and preserving match order within a layer.
func SegocByLayer(batch []*effect.Trigger) []*effect.Trigger {
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].Optional != batch[j].Optional {
			return !batch[i].Optional
		}
		return batch[i].Layer < batch[j].Layer
	})
	return batch
}

// SegocReverse requests pending triggers in reverse match order.
func SegocReverse(batch []*effect.Trigger) []*effect.Trigger {
	for i, j := 0, len(batch)-1; i < j; i, j = i+1, j-1 {
		batch[i], batch[j] = batch[j], batch[i]
	}
	return batch
}
