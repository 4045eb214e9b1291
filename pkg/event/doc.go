// Package event defines the timing-event data model shared by the engine
// and its hosts: TimingEvent records, temporal scope snapshots, and the
// ActionResult payload returned by effect actions.
package event
