// Package engine implements the effect-resolution state machine: the
// Request/Resolution/Commit pipeline for a single effect, the LIFO chain
// stack with trigger matching and SEGOC-ordered responses, continuously
// applied floodgates, constraint bookkeeping, temporal scopes, and the
// timing-event history.
//
// The engine is strictly single-threaded and synchronous. All callbacks
// run inline on the calling goroutine, and callbacks must not re-enter
// ActivateEffect or ResolveChain.
package engine
