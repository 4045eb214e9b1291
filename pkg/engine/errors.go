package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrReentrantCall is returned when ActivateEffect or ResolveChain is
// invoked from inside an engine callback.
var ErrReentrantCall = errors.New("engine re-entered from a callback")

// ActivationNegatedError means the activation itself was negated: the
// effect never happened and no timing event is committed for it.
// Hosts raise it from actions via NegateActivation.
type ActivationNegatedError struct {
	Reason string
}

func (e *ActivationNegatedError) Error() string {
	return fmt.Sprintf("activation negated: %s", e.Reason)
}

// NegateActivation returns an error that negates the whole activation.
func NegateActivation(reason string) error {
	return &ActivationNegatedError{Reason: reason}
}

// EffectNegatedError means the effect resolved to nothing. The engine
// commits a synthetic "effect_negated" marker event and the chain
// continues. Hosts raise it from actions via NegateEffect.
type EffectNegatedError struct {
	Reason string
}

func (e *EffectNegatedError) Error() string {
	return fmt.Sprintf("effect negated: %s", e.Reason)
}

// NegateEffect returns an error that negates the effect but commits a
// marker event.
func NegateEffect(reason string) error {
	return &EffectNegatedError{Reason: reason}
}

// ActionForbiddenError is returned from the request phase when an active
// forbid floodgate rejects the activation.
type ActionForbiddenError struct {
	Reason string
	// FloodgateRef is the registration id of the floodgate that fired.
	FloodgateRef uuid.UUID
}

func (e *ActionForbiddenError) Error() string {
	return fmt.Sprintf("action forbidden: %s (floodgate %s)", e.Reason, e.FloodgateRef)
}

// CostError means a cost could not be paid, or its probe failed.
// The cost callback may already have partially mutated the host; the
// engine does not roll that back.
type CostError struct {
	Reason string
}

func (e *CostError) Error() string {
	return fmt.Sprintf("cost cannot be paid: %s", e.Reason)
}

// CostCannotBePaid returns a CostError for host cost callbacks.
func CostCannotBePaid(reason string) error {
	return &CostError{Reason: reason}
}

// ConstraintViolatedError is returned by the constraint helpers when a
// usage limit has been reached.
type ConstraintViolatedError struct {
	Key string
}

func (e *ConstraintViolatedError) Error() string {
	return fmt.Sprintf("constraint violated: %s", e.Key)
}

// InfiniteLoopError is the fatal engine-level error raised when the chain
// loop exceeds its iteration cap. It is distinct from every game error.
type InfiniteLoopError struct {
	Iterations int
}

func (e *InfiniteLoopError) Error() string {
	return fmt.Sprintf("infinite loop detected after %d chain iterations", e.Iterations)
}

// IsActivationNegated reports whether err is (or wraps) an activation
// negation.
func IsActivationNegated(err error) bool {
	var target *ActivationNegatedError
	return errors.As(err, &target)
}

// IsEffectNegated reports whether err is (or wraps) an effect negation.
func IsEffectNegated(err error) bool {
	var target *EffectNegatedError
	return errors.As(err, &target)
}
