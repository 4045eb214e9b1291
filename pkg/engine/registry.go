package engine

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chesedcore/evesses/pkg/effect"
)

// registerTrigger adds t to the active set and wires its lifetime so the
// trigger is gone before the next request phase after expiry.
func (e *Engine) registerTrigger(t *effect.Trigger) {
	t.ID = uuid.New()
	e.triggers = append(e.triggers, t)

	if t.Lifetime != nil {
		id := t.ID
		e.unsubs[id] = t.Lifetime.SubscribeExpiry(func() {
			e.unregisterTrigger(id)
		})
	}
}

// unregisterTrigger removes the trigger with the given id from the active
// set and drops its lifetime subscription.
func (e *Engine) unregisterTrigger(id uuid.UUID) {
	for i, t := range e.triggers {
		if t.ID == id {
			e.triggers = append(e.triggers[:i], e.triggers[i+1:]...)
			e.logger.Debug("trigger unregistered", zap.String("trigger", t.String()))
			break
		}
	}
	// An expired trigger must not fire, so any queued response goes too.
	for i, t := range e.pending {
		if t.ID == id {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			break
		}
	}
	delete(e.pendingSet, id)
	e.dropSubscription(id)
}

// registerFloodgate adds f to the active list, records its insertion
// index, and re-sorts by (layer asc, insertion asc). The sorted order is
// an invariant every request and resolution pass relies on.
func (e *Engine) registerFloodgate(f *effect.Floodgate) {
	f.ID = uuid.New()
	e.fgInsertion[f.ID] = e.fgNextIndex
	e.fgNextIndex++

	e.floodgates = append(e.floodgates, f)
	sort.SliceStable(e.floodgates, func(i, j int) bool {
		a, b := e.floodgates[i], e.floodgates[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return e.fgInsertion[a.ID] < e.fgInsertion[b.ID]
	})

	if f.Lifetime != nil {
		id := f.ID
		e.unsubs[id] = f.Lifetime.SubscribeExpiry(func() {
			e.unregisterFloodgate(id)
		})
	}
}

// unregisterFloodgate removes the floodgate with the given id, dropping
// its insertion-order record and lifetime subscription. The remaining
// list stays sorted, so no re-sort is needed.
func (e *Engine) unregisterFloodgate(id uuid.UUID) {
	for i, f := range e.floodgates {
		if f.ID == id {
			e.floodgates = append(e.floodgates[:i], e.floodgates[i+1:]...)
			e.logger.Debug("floodgate unregistered", zap.String("floodgate", f.String()))
			break
		}
	}
	delete(e.fgInsertion, id)
	e.dropSubscription(id)
}

// dropSubscription unsubscribes and forgets the lifetime hook for id.
func (e *Engine) dropSubscription(id uuid.UUID) {
	if unsub, ok := e.unsubs[id]; ok {
		delete(e.unsubs, id)
		unsub()
	}
}

// ActiveTriggers returns the registered triggers in registration order.
// The slice is a copy; the triggers are not.
func (e *Engine) ActiveTriggers() []*effect.Trigger {
	out := make([]*effect.Trigger, len(e.triggers))
	copy(out, e.triggers)
	return out
}

// ActiveFloodgates returns the registered floodgates in application order.
// The slice is a copy; the floodgates are not.
func (e *Engine) ActiveFloodgates() []*effect.Floodgate {
	out := make([]*effect.Floodgate, len(e.floodgates))
	copy(out, e.floodgates)
	return out
}
