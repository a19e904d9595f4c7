package execshell

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant          = "execshell: logger not configured"
	commandRunnerNotConfiguredMessageConstant   = "execshell: command runner not configured"
	failureReporterNotConfiguredMessageConstant = "execshell: failure reporter not configured"
	commandFailedMessageConstant                = "shell command failed"
	failureReportedMessageConstant              = "shell command failure already reported"
	commandFailedErrorTemplateConstant          = "%s: exit code %d when running: %s"
)

var (
	// ErrLoggerNotConfigured indicates that a nil logger was provided.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that a nil command runner was provided.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrFailureReporterNotConfigured indicates that a nil failure reporter was provided.
	ErrFailureReporterNotConfigured = errors.New(failureReporterNotConfiguredMessageConstant)
	// ErrCommandFailed is the sentinel wrapped by every CommandFailedError.
	ErrCommandFailed = errors.New(commandFailedMessageConstant)
	// ErrFailureReported tells callers that a failure diagnostic was already delivered and must not be printed again.
	ErrFailureReported = errors.New(failureReportedMessageConstant)
)

// CommandFailedError reports that the shell ran but the command did not exit successfully.
type CommandFailedError struct {
	CommandLine    string
	ExitCode       int
	CombinedOutput []byte
}

// Error describes the failure.
func (failure *CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, commandFailedMessageConstant, failure.ExitCode, failure.CommandLine)
}

// Unwrap exposes ErrCommandFailed to errors.Is.
func (failure *CommandFailedError) Unwrap() error {
	return ErrCommandFailed
}
