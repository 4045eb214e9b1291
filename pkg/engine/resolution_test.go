package engine

import (
	"errors"
	"testing"

	"github.com/chesedcore/evesses/pkg/effect"
	"github.com/chesedcore/evesses/pkg/event"
	"github.com/chesedcore/evesses/pkg/opt"
)

// Test the full CompoundKind × prior-outcome table.
func TestResolution_CompoundKindTable(t *testing.T) {
	tests := []struct {
		kind          effect.CompoundKind
		prevSucceeded bool
		prevErrored   bool
		want          bool
	}{
		{effect.CompoundAnd, true, false, true},
		{effect.CompoundAnd, false, false, true},
		{effect.CompoundAnd, false, true, true},
		{effect.CompoundAndThen, true, false, true},
		{effect.CompoundAndThen, false, false, true},
		{effect.CompoundAndThen, false, true, false},
		{effect.CompoundAndIfYouDo, true, false, true},
		{effect.CompoundAndIfYouDo, false, false, false},
		{effect.CompoundAndThenIfYouDo, true, false, true},
		{effect.CompoundAndThenIfYouDo, false, false, false},
	}

	for _, tt := range tests {
		got := shouldExecuteStep(tt.kind, tt.prevSucceeded, tt.prevErrored)
		if got != tt.want {
			t.Errorf("shouldExecuteStep(%s, succeeded=%v, errored=%v) = %v, want %v",
				tt.kind, tt.prevSucceeded, tt.prevErrored, got, tt.want)
		}
	}
}

// Test that compound steps chain their outcomes: each conditional step
// sees the outcome of the step immediately before it.
func TestResolution_CompoundChaining(t *testing.T) {
	e := New()

	// Main succeeds; first step does nothing; the if-you-do after it
	// must be skipped, but the unconditional step after that still runs.
	eff := e.DirectEffect().
		Action(emit("main", 2)).
		AndThen(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			return event.None(), nil
		}).
		AndIfYouDo(emit("skipped", 2)).
		AndAlso(emit("always", 2)).
		Build()

	mustActivate(t, e, eff)
	mustResolve(t, e)

	got := historyTimings(e.TimingHistory())
	want := []string{"main", "always"}
	if len(got) != len(want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Test that a compound-step error never aborts the enclosing effect and
// gates later AndThen steps.
func TestResolution_CompoundErrorContinues(t *testing.T) {
	e := New()

	stepErr := errors.New("step exploded")
	eff := e.DirectEffect().
		Action(emit("main", 2)).
		AndThen(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			return nil, stepErr
		}).
		AndThen(emit("after_error", 2)).
		AndAlso(emit("regardless", 2)).
		Build()

	mustActivate(t, e, eff)
	if err := e.ResolveChain(nil); err != nil {
		t.Fatalf("step error must not abort the chain, got %v", err)
	}

	got := historyTimings(e.TimingHistory())
	want := []string{"main", "regardless"}
	if len(got) != len(want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Test that an EffectNegated compound step commits a marker carrying the
// step index and gates later conditional steps.
func TestResolution_CompoundNegationMarker(t *testing.T) {
	e := New()

	eff := e.DirectEffect().
		Action(emit("main", 2)).
		AndThen(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			return nil, NegateEffect("step countered")
		}).
		AndIfYouDo(emit("gated", 2)).
		Build()

	mustActivate(t, e, eff)
	mustResolve(t, e)

	history := e.TimingHistory()
	var marker *event.TimingEvent
	for _, ev := range history {
		if ev.Timing == "effect_negated" {
			marker = ev
		}
		if ev.Timing == "gated" {
			t.Error("if-you-do step ran after a negated step")
		}
	}
	if marker == nil {
		t.Fatal("expected an effect_negated marker in history")
	}
	if idx, ok := marker.Data["compound_index"].(int); !ok || idx != 0 {
		t.Errorf("marker compound_index = %v, want 0", marker.Data["compound_index"])
	}
}

// Test that replace floodgates substitute the action and chain onto each
// other's output.
func TestResolution_ReplaceChains(t *testing.T) {
	e := New()

	// First replacement (layer 1) swaps the action; the second (layer 2)
	// must see the swapped action and leaves the pair unchanged.
	if _, err := e.Floodgate().
		Layer(1).
		Replace(func(ctx effect.Context, sub effect.Substitution) opt.Option[effect.Substitution] {
			return opt.Some(effect.Substitution{Action: emit("replaced", 2)})
		}).
		Build(); err != nil {
		t.Fatalf("failed to build first replace: %v", err)
	}

	var secondSawAction bool
	if _, err := e.Floodgate().
		Layer(2).
		Replace(func(ctx effect.Context, sub effect.Substitution) opt.Option[effect.Substitution] {
			if sub.Action != nil {
				res, err := sub.Action(ctx, nil)
				secondSawAction = err == nil && len(res.Events) == 1 && res.Events[0].Timing == "replaced"
			}
			return opt.None[effect.Substitution]()
		}).
		Build(); err != nil {
		t.Fatalf("failed to build second replace: %v", err)
	}

	eff := e.DirectEffect().Action(emit("original", 2)).Build()
	mustActivate(t, e, eff)
	mustResolve(t, e)

	got := historyTimings(e.TimingHistory())
	if len(got) != 1 || got[0] != "replaced" {
		t.Fatalf("expected history [replaced], got %v", got)
	}
	if !secondSawAction {
		t.Error("second replace floodgate did not see the substituted pair")
	}
}

// Test that replace floodgates can substitute targets.
func TestResolution_ReplaceTargets(t *testing.T) {
	e := New()

	if _, err := e.Floodgate().
		Replace(func(ctx effect.Context, sub effect.Substitution) opt.Option[effect.Substitution] {
			return opt.Some(effect.Substitution{Targets: opt.Some[any]("decoy")})
		}).
		Build(); err != nil {
		t.Fatalf("failed to build floodgate: %v", err)
	}

	var got any
	eff := e.DirectEffect().
		Target(func(ctx effect.Context) (any, error) { return "dragon", nil }).
		Action(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			got = targets
			return event.Some(), nil
		}).
		Build()

	mustActivate(t, e, eff)
	mustResolve(t, e)

	if got != "decoy" {
		t.Errorf("action targets = %v, want decoy", got)
	}
}

// Test that modify floodgates rewrite emitted events in layer order and
// that a None return leaves the event alone.
func TestResolution_ModifyPassOrder(t *testing.T) {
	e := New()

	// Layer 2 renames; layer 1 bumps the layer first. Application order
	// is layer ascending, so the rename sees the bumped event.
	if _, err := e.Floodgate().
		Layer(2).
		Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			if ev.Layer != 3 {
				return opt.None[*event.TimingEvent]()
			}
			out := ev.Clone()
			out.Timing = "renamed"
			return opt.Some(out)
		}).
		Build(); err != nil {
		t.Fatalf("failed to build rename floodgate: %v", err)
	}

	if _, err := e.Floodgate().
		Layer(1).
		Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			out := ev.Clone()
			out.Layer = 3
			return opt.Some(out)
		}).
		Build(); err != nil {
		t.Fatalf("failed to build bump floodgate: %v", err)
	}

	eff := e.DirectEffect().Action(emit("original", 2)).Build()
	mustActivate(t, e, eff)
	mustResolve(t, e)

	history := e.TimingHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 event, got %d", len(history))
	}
	if history[0].Timing != "renamed" || history[0].Layer != 3 {
		t.Errorf("got event %s@%d, want renamed@3", history[0].Timing, history[0].Layer)
	}
}

// Test that execution errors surface before the modify pass runs.
func TestResolution_ErrorSkipsModify(t *testing.T) {
	e := New()

	modified := false
	if _, err := e.Floodgate().
		Modify(func(ctx effect.Context, ev *event.TimingEvent) opt.Option[*event.TimingEvent] {
			modified = true
			return opt.None[*event.TimingEvent]()
		}).
		Build(); err != nil {
		t.Fatalf("failed to build floodgate: %v", err)
	}

	bang := errors.New("bang")
	eff := e.DirectEffect().
		Action(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			return nil, bang
		}).
		Build()
	mustActivate(t, e, eff)

	if err := e.ResolveChain(nil); !errors.Is(err, bang) {
		t.Fatalf("expected the action error, got %v", err)
	}
	if modified {
		t.Error("modify pass ran despite execution error")
	}
}

// Test that generic resolution errors stop the drain and surface from
// ResolveChain.
func TestResolution_GenericErrorStopsChain(t *testing.T) {
	e := New()

	bang := errors.New("host exploded")
	broken := e.DirectEffect().
		Action(func(ctx effect.Context, targets any) (*event.ActionResult, error) {
			return nil, bang
		}).
		Build()
	under := e.DirectEffect().Action(emit("never", 2)).Build()

	mustActivate(t, e, under)
	mustActivate(t, e, broken)

	if err := e.ResolveChain(nil); !errors.Is(err, bang) {
		t.Fatalf("expected the host error, got %v", err)
	}
	if len(e.TimingHistory()) != 0 {
		t.Error("no events should commit before the failing entry")
	}
}
