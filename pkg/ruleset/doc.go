// Package ruleset loads declarative chain scenarios from YAML and binds
// them into an engine: scopes to open, effects with their emitted events
// and compound steps, triggers, floodgates, and loop tuning. It exists so
// hosts and tools can describe rule setups as data instead of code.
package ruleset
