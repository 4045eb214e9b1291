// Package effect defines the callback-bearing records the engine resolves:
// effects with their constraints, costs, targets and compound steps;
// triggers that respond to timing events; and floodgates that forbid,
// modify, or replace actions while they are active.
package effect
