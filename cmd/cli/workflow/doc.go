// Package workflow provides the shellrun workflow command, which runs the
// steps of a YAML workflow file through the shared shell executor.
package workflow
