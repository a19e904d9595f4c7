package ui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/execshell"
)

const (
	commandFailedExitCodeMessageTemplateConstant   = "%s exited with status %d"
	commandExecutionFailureMessageTemplateConstant = "%s could not be started: %s"
	unknownFailureMessageConstant                  = "unknown error"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
// Failures are logged at debug level because the failure reporter emits the diagnostic.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Debug(fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, command.CommandLine, result.ExitCode))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging start failures at debug level.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	eventLogger.logger.Debug(fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, command.CommandLine, failureMessage))
}
