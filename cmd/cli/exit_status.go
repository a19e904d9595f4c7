package cli

import (
	"errors"

	"github.com/temirov/shellrun/internal/execshell"
)

const (
	exitStatusSuccessConstant      = 0
	exitStatusFailureConstant      = 1
	exitStatusLargestValidConstant = 255
)

// ExitStatus maps an execution error to the process exit status.
// A propagated command failure keeps the command's own exit code when it fits the 1..255 range;
// signal deaths, reported failures, and every other error exit with 1.
func ExitStatus(executionError error) int {
	if executionError == nil {
		return exitStatusSuccessConstant
	}

	var commandFailure *execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		if commandFailure.ExitCode > exitStatusSuccessConstant && commandFailure.ExitCode <= exitStatusLargestValidConstant {
			return commandFailure.ExitCode
		}
	}
	return exitStatusFailureConstant
}

// ShouldPrintError reports whether the error still needs to be shown; reported failures were already printed.
func ShouldPrintError(executionError error) bool {
	return executionError != nil && !errors.Is(executionError, execshell.ErrFailureReported)
}
