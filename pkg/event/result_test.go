package event

import "testing"

func TestConstructors(t *testing.T) {
	if r := Some(); !r.Succeeded || len(r.Events) != 0 {
		t.Error("Some() should succeed with no events")
	}
	if r := None(); r.Succeeded || len(r.Events) != 0 {
		t.Error("None() should fail with no events")
	}

	ev := New("drawn", 2)
	if r := SomeEvent(ev); !r.Succeeded || len(r.Events) != 1 || r.Events[0] != ev {
		t.Error("SomeEvent() should wrap the one event")
	}
	if r := SomeEvents(ev, New("x", 1)); !r.Succeeded || len(r.Events) != 2 {
		t.Error("SomeEvents() should wrap all events")
	}
}

func TestNormalize(t *testing.T) {
	ev := New("drawn", 2)

	tests := []struct {
		name          string
		in            any
		wantSucceeded bool
		wantEvents    int
	}{
		{"nil", nil, false, 0},
		{"action result pointer", SomeEvent(ev), true, 1},
		{"nil action result pointer", (*ActionResult)(nil), false, 0},
		{"action result value", ActionResult{Succeeded: true}, true, 0},
		{"event pointer", ev, true, 1},
		{"nil event pointer", (*TimingEvent)(nil), false, 0},
		{"event value", *ev, true, 1},
		{"event slice", []*TimingEvent{ev, ev}, true, 2},
		{"true", true, true, 0},
		{"false", false, false, 0},
		{"zero int", 0, false, 0},
		{"nonzero int", 3, true, 0},
		{"zero int64", int64(0), false, 0},
		{"opaque value", "something happened", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.Succeeded != tt.wantSucceeded {
				t.Errorf("Succeeded = %v, want %v", got.Succeeded, tt.wantSucceeded)
			}
			if len(got.Events) != tt.wantEvents {
				t.Errorf("len(Events) = %d, want %d", len(got.Events), tt.wantEvents)
			}
		})
	}
}
