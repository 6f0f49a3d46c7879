// Package orchestrator wires the dialog registry → theme selector → renderer
// pipeline, providing dependency injection friendly helpers for hosts that
// prefer a single entry point.
package orchestrator
