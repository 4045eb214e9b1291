package effect

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase identifies which pipeline phase a floodgate applies in.
type Phase int

const (
	// PhaseRequest floodgates run while an activation is being validated.
	PhaseRequest Phase = iota
	// PhaseResolution floodgates run while an effect resolves.
	PhaseResolution
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseRequest:
		return "Request"
	case PhaseResolution:
		return "Resolution"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// FloodgateKind selects which of the three interceptor contracts a
// floodgate implements.
type FloodgateKind int

const (
	// KindForbid fails activations during the request phase.
	KindForbid FloodgateKind = iota
	// KindModify transforms emitted timing events during resolution.
	KindModify
	// KindReplace substitutes the action and/or targets before execution.
	KindReplace
)

// String returns the string representation of the FloodgateKind.
func (k FloodgateKind) String() string {
	switch k {
	case KindForbid:
		return "Forbid"
	case KindModify:
		return "Modify"
	case KindReplace:
		return "Replace"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Floodgate is a continuous interceptor. Exactly one of Forbid, Modify, or
// Replace is set, matching Kind. Active floodgates are applied in
// (layer asc, insertion order asc) order.
type Floodgate struct {
	// ID is assigned by the engine at registration and reported in
	// ActionForbidden errors.
	ID uuid.UUID

	// Name identifies the floodgate in errors and logs. Optional.
	Name string

	Phase Phase
	Layer int
	Kind  FloodgateKind

	Forbid  ForbidFunc
	Modify  ModifyFunc
	Replace ReplaceFunc

	// Lifetime unregisters the floodgate when its host object expires.
	Lifetime Lifetime
}

// String returns a short human-readable description of the floodgate.
func (f *Floodgate) String() string {
	return fmt.Sprintf("Floodgate[%s %s/%s layer=%d]", f.Name, f.Phase, f.Kind, f.Layer)
}
