package event

// ActionResult is the canonical return payload from an effect action.
// Succeeded reports whether the action did something observable; it gates
// "if you do" compound steps. Events lists the timing events the action
// emitted, in order.
type ActionResult struct {
	Succeeded bool
	Events    []*TimingEvent
}

// Some returns a successful result that emitted no events.
func Some() *ActionResult {
	return &ActionResult{Succeeded: true}
}

// SomeEvent returns a successful result that emitted a single event.
func SomeEvent(e *TimingEvent) *ActionResult {
	return &ActionResult{Succeeded: true, Events: []*TimingEvent{e}}
}

// SomeEvents returns a successful result that emitted the given events.
func SomeEvents(events ...*TimingEvent) *ActionResult {
	return &ActionResult{Succeeded: true, Events: events}
}

// None returns a "did nothing" result.
func None() *ActionResult {
	return &ActionResult{Succeeded: false}
}

// Normalize converts a raw action return value into an ActionResult.
// Actions written in Go, including the ones pkg/ruleset builds, return
// *ActionResult directly and never pass through here; this layer exists
// for dynamic-binding boundaries such as hosts embedding a scripting
// runtime, where the raw value may be an event, a list of events, a
// boolean, an integer, or nil. The engine itself does not call it.
//
// Rules:
//   - *ActionResult / ActionResult: kept as-is
//   - *TimingEvent / TimingEvent: success with that one event
//   - []*TimingEvent: success with those events
//   - nil: did nothing
//   - bool: success flag, no events
//   - int, int32, int64: zero means did nothing, anything else success;
//     other integer types fall under the opaque rule below
//   - any other value: treated as an opaque positive signal
func Normalize(v any) *ActionResult {
	switch r := v.(type) {
	case nil:
		return None()
	case *ActionResult:
		if r == nil {
			return None()
		}
		return r
	case ActionResult:
		return &r
	case *TimingEvent:
		if r == nil {
			return None()
		}
		return SomeEvent(r)
	case TimingEvent:
		return SomeEvent(&r)
	case []*TimingEvent:
		return &ActionResult{Succeeded: true, Events: r}
	case bool:
		return &ActionResult{Succeeded: r}
	case int:
		return &ActionResult{Succeeded: r != 0}
	case int32:
		return &ActionResult{Succeeded: r != 0}
	case int64:
		return &ActionResult{Succeeded: r != 0}
	default:
		return Some()
	}
}
