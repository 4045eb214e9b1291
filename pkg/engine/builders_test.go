package engine

import (
	"testing"

	"github.com/chesedcore/evesses/pkg/effect"
	"github.com/chesedcore/evesses/pkg/event"
	"github.com/chesedcore/evesses/pkg/opt"
)

// Test that EffectBuilder wires every field onto the built effect.
func TestEffectBuilder_Wiring(t *testing.T) {
	e := New()

	lt := effect.NewSignal()
	eff := e.DirectEffect().
		Name("fusion summon").
		Tag("spell").
		Tag("fusion").
		Constraint(func(ctx effect.Context) error { return nil }).
		Cost(func(ctx effect.Context) error { return nil }).
		CostChecker(func(ctx effect.Context) error { return nil }).
		Target(func(ctx effect.Context) (any, error) { return nil, nil }).
		Action(emit("summoned", 2)).
		AndAlso(emit("a", 1)).
		AndThen(emit("b", 1)).
		AndIfYouDo(emit("c", 1)).
		AndThenIfYouDo(emit("d", 1)).
		BindLifetime(lt).
		Build()

	if eff.Name != "fusion summon" {
		t.Errorf("Name = %q", eff.Name)
	}
	if !eff.HasTag("spell") || !eff.HasTag("fusion") {
		t.Error("tags not wired")
	}
	if len(eff.Constraints) != 1 {
		t.Errorf("constraints = %d, want 1", len(eff.Constraints))
	}
	if eff.Cost == nil || eff.CostChecker == nil || eff.Target == nil || eff.Action == nil {
		t.Error("callbacks not wired")
	}
	if eff.Lifetime != lt {
		t.Error("lifetime not wired")
	}

	wantKinds := []effect.CompoundKind{
		effect.CompoundAnd,
		effect.CompoundAndThen,
		effect.CompoundAndIfYouDo,
		effect.CompoundAndThenIfYouDo,
	}
	if len(eff.Steps) != len(wantKinds) {
		t.Fatalf("steps = %d, want %d", len(eff.Steps), len(wantKinds))
	}
	for i, want := range wantKinds {
		if eff.Steps[i].Kind != want {
			t.Errorf("steps[%d].Kind = %s, want %s", i, eff.Steps[i].Kind, want)
		}
	}
}

// Test that TriggerBuilder registers on Build with defaults applied.
func TestTriggerBuilder_RegistersOnBuild(t *testing.T) {
	e := New()

	tr := e.OnTiming("destroyed").Action(emit("drawn", 2)).Build()

	if tr.Layer != 1 {
		t.Errorf("default layer = %d, want 1", tr.Layer)
	}
	if tr.Optional {
		t.Error("triggers default to mandatory")
	}
	active := e.ActiveTriggers()
	if len(active) != 1 || active[0] != tr {
		t.Fatal("trigger not registered on Build")
	}
}

// Test that FloodgateBuilder enforces exactly one kind.
func TestFloodgateBuilder_ExactlyOneKind(t *testing.T) {
	e := New()

	if _, err := e.Floodgate().Build(); err == nil {
		t.Error("expected error with no kind set")
	}

	_, err := e.Floodgate().
		Forbid(func(ctx effect.Context, eff *effect.Effect) bool { return false }).
		Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			return opt.None[*event.TimingEvent]()
		}).
		Build()
	if err == nil {
		t.Error("expected error with two kinds set")
	}

	if got := len(e.ActiveFloodgates()); got != 0 {
		t.Errorf("failed builds must not register, got %d floodgates", got)
	}
}

// Test that kinds imply their phase unless overridden.
func TestFloodgateBuilder_PhaseDefaults(t *testing.T) {
	e := New()

	forbid, err := e.Floodgate().
		Forbid(func(ctx effect.Context, eff *effect.Effect) bool { return false }).
		Build()
	if err != nil {
		t.Fatalf("failed to build forbid: %v", err)
	}
	if forbid.Phase != effect.PhaseRequest {
		t.Errorf("forbid phase = %s, want Request", forbid.Phase)
	}

	modify, err := e.Floodgate().
		Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			return opt.None[*event.TimingEvent]()
		}).
		Build()
	if err != nil {
		t.Fatalf("failed to build modify: %v", err)
	}
	if modify.Phase != effect.PhaseResolution {
		t.Errorf("modify phase = %s, want Resolution", modify.Phase)
	}
}

// Test that a trigger's OncePerTurn gates re-request within a chain.
func TestTriggerBuilder_OncePerTurn(t *testing.T) {
	e := New()

	e.OnTiming("destroyed").
		Layer(2).
		OncePerTurn("revenge").
		Action(emit("revenge", 3)).
		Build()

	// Two separate chains, each destroying once: the trigger's effect
	// may only be requested the first time.
	for i := 0; i < 2; i++ {
		eff := e.DirectEffect().Action(emit("destroyed", 2)).Build()
		mustActivate(t, e, eff)
		mustResolve(t, e)
	}

	revenge := 0
	for _, ev := range e.TimingHistory() {
		if ev.Timing == "revenge" {
			revenge++
		}
	}
	if revenge != 1 {
		t.Errorf("revenge fired %d times, want 1 (once per turn)", revenge)
	}
}
