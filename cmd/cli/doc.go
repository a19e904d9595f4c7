// Package cli constructs the shellrun command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the shell executor. It exposes helpers to build reusable
// application instances and to map execution errors to process exit codes.
package cli
