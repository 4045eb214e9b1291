// Package export renders a committed timing-event history to external
// formats: an indented JSON document for tooling and an SVG timeline for
// humans reading a resolved chain.
package export
