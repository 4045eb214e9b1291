package effect

import (
	"encoding/json"
	"testing"
)

func TestCompoundKind_String(t *testing.T) {
	tests := []struct {
		kind CompoundKind
		want string
	}{
		{CompoundAnd, "And"},
		{CompoundAndThen, "AndThen"},
		{CompoundAndIfYouDo, "AndIfYouDo"},
		{CompoundAndThenIfYouDo, "AndThenIfYouDo"},
		{CompoundKind(99), "Unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestEffect_Tags(t *testing.T) {
	var e Effect
	if e.HasTag("spell") {
		t.Error("empty effect should have no tags")
	}
	e.AddTag("spell")
	e.AddTag("quick-play")
	if !e.HasTag("spell") || !e.HasTag("quick-play") {
		t.Error("added tags should be present")
	}
	if e.HasTag("trap") {
		t.Error("unknown tag should be absent")
	}
}

func TestEffect_MarshalJSON(t *testing.T) {
	e := &Effect{Name: "mirror force"}
	e.AddTag("trap")
	e.Steps = append(e.Steps, CompoundStep{Kind: CompoundAnd})
	// Callback fields must not break serialization.
	e.Cost = func(ctx Context) error { return nil }

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"name":"mirror force","tags":["trap"],"steps":1}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestPhaseAndKindStrings(t *testing.T) {
	if PhaseRequest.String() != "Request" || PhaseResolution.String() != "Resolution" {
		t.Error("Phase.String mismatch")
	}
	if KindForbid.String() != "Forbid" || KindModify.String() != "Modify" || KindReplace.String() != "Replace" {
		t.Error("FloodgateKind.String mismatch")
	}
}
