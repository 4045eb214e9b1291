package effect

import (
	"fmt"

	"github.com/google/uuid"
)

// Trigger is a passive rule that matches committed timing events and
// generates a new effect activation in response.
type Trigger struct {
	// ID is assigned by the engine at registration.
	ID uuid.UUID

	// Name identifies the trigger in logs. Optional.
	Name string

	// Timing is the event name this trigger responds to.
	Timing string

	// Layer must equal the event's layer for the trigger to match.
	Layer int

	// Filter further narrows matching events. A nil filter matches all.
	Filter FilterFunc

	// Optional marks the activation as player-gated. Mandatory triggers
	// always fire.
	Optional bool

	// Effect is requested onto the chain when the trigger fires.
	Effect *Effect

	// Lifetime unregisters the trigger when its host object expires.
	Lifetime Lifetime
}

// String returns a short human-readable description of the trigger.
func (t *Trigger) String() string {
	mode := "mandatory"
	if t.Optional {
		mode = "optional"
	}
	return fmt.Sprintf("Trigger[%s on %q layer=%d %s]", t.Name, t.Timing, t.Layer, mode)
}
