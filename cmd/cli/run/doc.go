// Package run provides the shellrun run command, which executes a single
// command line through the shared shell executor.
package run
