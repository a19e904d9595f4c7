// Package workflow loads ordered shell steps from a YAML file and runs them
// through a shared command executor, stopping at the first failed step unless
// asked to continue.
package workflow
