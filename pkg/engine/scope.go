package engine

import "github.com/chesedcore/evesses/pkg/event"

// Timing opens a temporal scope. Scopes nest: a typical host pushes a turn
// scope, then a phase scope inside it. Every event committed while the
// scope is open carries it in its scope snapshot.
func (e *Engine) Timing(scope string, layer int) {
	e.scopes = append(e.scopes, event.Scope{Name: scope, Layer: layer})
}

// EndTiming closes the topmost open scope with the given name. Closing a
// name that is not open is a no-op.
func (e *Engine) EndTiming(scope string) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if e.scopes[i].Name == scope {
			e.scopes = append(e.scopes[:i], e.scopes[i+1:]...)
			return
		}
	}
}

// CurrentScopes returns a copy of the open scope stack, outermost first.
func (e *Engine) CurrentScopes() event.ScopeStack {
	return e.scopes.Clone()
}
