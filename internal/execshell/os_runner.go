package execshell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
)

// OSCommandRunner executes processes using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the invocation, waits for it to exit, and captures stdout and stderr as one stream.
func (runner *OSCommandRunner) Run(executionContext context.Context, invocation ProcessInvocation) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	processArguments := append([]string{}, invocation.Arguments...)
	executable := exec.CommandContext(executionContext, invocation.Executable, processArguments...)

	if len(invocation.WorkingDirectory) > 0 {
		executable.Dir = invocation.WorkingDirectory
	}

	if invocation.Environment != nil {
		executable.Env = append([]string{}, invocation.Environment...)
	}

	var combinedOutputBuffer bytes.Buffer
	executable.Stdout = &combinedOutputBuffer
	executable.Stderr = &combinedOutputBuffer

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				CombinedOutput: combinedOutputBuffer.Bytes(),
				ExitCode:       resolveExitCode(exitError),
			}, nil
		}
		return ExecutionResult{CombinedOutput: combinedOutputBuffer.Bytes()}, runError
	}

	return ExecutionResult{
		CombinedOutput: combinedOutputBuffer.Bytes(),
		ExitCode:       0,
	}, nil
}

func resolveExitCode(exitError *exec.ExitError) int {
	if waitStatus, isWaitStatus := exitError.Sys().(syscall.WaitStatus); isWaitStatus && waitStatus.Signaled() {
		return -int(waitStatus.Signal())
	}
	return exitError.ExitCode()
}
