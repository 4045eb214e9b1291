package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chesedcore/evesses/pkg/effect"
	"github.com/chesedcore/evesses/pkg/event"
)

// DefaultMaxChainIterations bounds the outer chain loop. A thousand
// iterations is far beyond any legal game state; hitting it means two
// triggers are feeding each other.
const DefaultMaxChainIterations = 1000

// SegocSorter reorders a batch of simultaneously pending triggers before
// each re-enters the request phase. The engine hands the sorter the full
// batch exactly once per chain-loop iteration; the returned order is the
// request order.
type SegocSorter func(batch []*effect.Trigger) []*effect.Trigger

// OptionalTriggerPrompt decides whether a player accepts an optional
// trigger. The real host integration blocks on player input; the default
// policy auto-accepts.
type OptionalTriggerPrompt func(t *effect.Trigger) bool

// chainEntry is one requested-but-unresolved activation on the chain stack.
type chainEntry struct {
	eff     *effect.Effect
	targets any
	ctx     effect.Context
}

// Stats exposes engine counters for host diagnostics.
type Stats struct {
	EventsCommitted       int
	LastResolveIterations int
	ActiveTriggers        int
	ActiveFloodgates      int
}

// Engine owns the registries, the chain stack, and the timing history.
// It is not safe for concurrent use; all access must come from one
// goroutine.
type Engine struct {
	logger *zap.Logger

	triggers   []*effect.Trigger
	floodgates []*effect.Floodgate

	// insertion order records for floodgate sorting, keyed by id
	fgInsertion map[uuid.UUID]int
	fgNextIndex int

	chain   []chainEntry
	pending []*effect.Trigger
	// pendingSet dedupes triggers within the current matching batch
	pendingSet map[uuid.UUID]struct{}

	tracker map[string]int
	scopes  event.ScopeStack
	history []*event.TimingEvent

	nextTimestamp int64
	maxIterations int

	segoc          SegocSorter
	promptOptional OptionalTriggerPrompt

	// lifetime unsubscribe hooks per registered item
	unsubs map[uuid.UUID]func()

	// inCallback guards against reentrancy from engine callbacks
	inCallback bool

	lastResolveIterations int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the structured logger the engine emits warnings to.
// The default is a no-op logger; the engine never writes output on its own.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxChainIterations sets the chain-loop iteration cap.
func WithMaxChainIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// New creates an engine with empty registries and history.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:         zap.NewNop(),
		fgInsertion:    make(map[uuid.UUID]int),
		pendingSet:     make(map[uuid.UUID]struct{}),
		tracker:        make(map[string]int),
		maxIterations:  DefaultMaxChainIterations,
		segoc:          SegocIdentity,
		promptOptional: func(*effect.Trigger) bool { return true },
		unsubs:         make(map[uuid.UUID]func()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSegocSorter replaces the pending-response ordering policy.
// A nil sorter restores the identity policy.
func (e *Engine) SetSegocSorter(fn SegocSorter) {
	if fn == nil {
		fn = SegocIdentity
	}
	e.segoc = fn
}

// SetMaxChainIterations tunes the chain-loop iteration cap.
// Values below one are ignored.
func (e *Engine) SetMaxChainIterations(n int) {
	if n > 0 {
		e.maxIterations = n
	}
}

// SetOptionalTriggerPrompt installs the host callback that gates optional
// triggers. A nil prompt restores the auto-accept policy.
func (e *Engine) SetOptionalTriggerPrompt(fn OptionalTriggerPrompt) {
	if fn == nil {
		fn = func(*effect.Trigger) bool { return true }
	}
	e.promptOptional = fn
}

// ActivateEffect runs the request phase for eff: constraints, forbid
// floodgates, cost probe and payment, target selection, and finally the
// push onto the chain stack. It does not resolve anything; call
// ResolveChain once all competing activations are on the stack.
//
// A request error leaves the chain stack untouched, but constraint marks
// and partially paid costs are not undone.
func (e *Engine) ActivateEffect(eff *effect.Effect, ctx effect.Context) error {
	if e.inCallback {
		return ErrReentrantCall
	}
	e.inCallback = true
	defer func() { e.inCallback = false }()
	return e.requestPhase(eff, ctx)
}

// TimingHistory returns a snapshot of the committed event history in
// commit order. Each event is a TimingEvent.Clone copy: its data map and
// scope snapshot are its own, but the values inside Data are shared.
func (e *Engine) TimingHistory() []*event.TimingEvent {
	out := make([]*event.TimingEvent, len(e.history))
	for i, ev := range e.history {
		out[i] = ev.Clone()
	}
	return out
}

// ChainDepth returns the number of requested-but-unresolved entries on
// the chain stack.
func (e *Engine) ChainDepth() int {
	return len(e.chain)
}

// PendingResponses returns the number of triggers queued but not yet
// re-requested.
func (e *Engine) PendingResponses() int {
	return len(e.pending)
}

// Stats returns current engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		EventsCommitted:       len(e.history),
		LastResolveIterations: e.lastResolveIterations,
		ActiveTriggers:        len(e.triggers),
		ActiveFloodgates:      len(e.floodgates),
	}
}
