package execshell

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	logMessageCommandStartedConstant         = "shell command started"
	logMessageCommandSucceededConstant       = "shell command succeeded"
	logMessageCommandFailedConstant          = "shell command failed"
	logMessageCommandExecutionFailedConstant = "shell command could not be executed"
	logMessageFailureReturnedConstant        = "returning shell failure to caller"
	logMessageFailureReportedConstant        = "reported shell failure"
	logFieldInvocationIdentifierConstant     = "invocation_id"
	logFieldCommandLineConstant              = "command"
	logFieldInterpreterConstant              = "interpreter"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldExitCodeConstant                 = "exit_code"
	logFieldOutputSizeConstant               = "output_bytes"
	logFieldFailureKindConstant              = "failure_kind"
)

// ExecutorOption customizes a ShellExecutor.
type ExecutorOption func(executor *ShellExecutor)

// WithInterpreter replaces the default /bin/bash interpreter.
func WithInterpreter(interpreter ShellInterpreter) ExecutorOption {
	return func(executor *ShellExecutor) {
		executor.interpreter = interpreter.normalize()
	}
}

// WithEnvironmentProvider substitutes the source of the inherited environment.
func WithEnvironmentProvider(provider EnvironmentProvider) ExecutorOption {
	return func(executor *ShellExecutor) {
		executor.environmentProvider = resolveEnvironmentProvider(provider)
	}
}

// WithCommandEventObserver registers an observer for command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ExecutorOption {
	return func(executor *ShellExecutor) {
		if observer == nil {
			executor.eventObserver = noopCommandEventObserver{}
			return
		}
		executor.eventObserver = observer
	}
}

// ShellExecutor runs ShellCommands and routes their failures.
type ShellExecutor struct {
	logger              *zap.Logger
	commandRunner       CommandRunner
	failureReporter     FailureReporter
	interpreter         ShellInterpreter
	environmentProvider EnvironmentProvider
	eventObserver       CommandEventObserver
	messageFormatter    CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor with the provided collaborators.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, failureReporter FailureReporter, options ...ExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if failureReporter == nil {
		return nil, ErrFailureReporterNotConfigured
	}

	executor := &ShellExecutor{
		logger:              logger,
		commandRunner:       commandRunner,
		failureReporter:     failureReporter,
		interpreter:         DefaultShellInterpreter(),
		environmentProvider: resolveEnvironmentProvider(nil),
		eventObserver:       noopCommandEventObserver{},
		messageFormatter:    CommandMessageFormatter{},
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(executor)
	}

	return executor, nil
}

// Interpreter returns the shell the executor invokes.
func (executor *ShellExecutor) Interpreter() ShellInterpreter {
	return executor.interpreter
}

// ModifiedEnvironment returns the inherited environment overlaid by the command's extra variables.
func (executor *ShellExecutor) ModifiedEnvironment(command ShellCommand) map[string]string {
	return ComputeModifiedEnvironment(executor.environmentProvider(), command.ExtraEnvironment)
}

// Execute runs the command through the shell and blocks until it exits.
// It returns true when the command exited with status zero. When RaiseErrors is set the failure
// is returned unchanged; otherwise it is reported once through the FailureReporter and Execute
// returns false with a nil error.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (bool, error) {
	invocationLogger := executor.logger.With(
		zap.String(logFieldInvocationIdentifierConstant, uuid.NewString()),
		zap.String(logFieldCommandLineConstant, command.CommandLine),
		zap.String(logFieldInterpreterConstant, executor.interpreter.Path),
		zap.String(logFieldWorkingDirectoryConstant, command.WorkingDirectory),
	)

	invocation := ProcessInvocation{
		Executable:       executor.interpreter.Path,
		Arguments:        executor.interpreter.buildArguments(command.CommandLine),
		Environment:      formatEnvironmentAssignments(executor.ModifiedEnvironment(command)),
		WorkingDirectory: command.WorkingDirectory,
	}

	executor.eventObserver.CommandStarted(command)
	invocationLogger.Debug(logMessageCommandStartedConstant)

	executionResult, runError := executor.commandRunner.Run(executionContext, invocation)

	var failure error
	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		invocationLogger.Debug(logMessageCommandExecutionFailedConstant, zap.Error(runError))
		failure = runError
	} else {
		executor.eventObserver.CommandCompleted(command, executionResult)
		if executionResult.ExitCode == 0 {
			invocationLogger.Debug(logMessageCommandSucceededConstant)
			return true, nil
		}
		invocationLogger.Debug(
			logMessageCommandFailedConstant,
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.Int(logFieldOutputSizeConstant, len(executionResult.CombinedOutput)),
		)
		failure = &CommandFailedError{
			CommandLine:    command.CommandLine,
			ExitCode:       executionResult.ExitCode,
			CombinedOutput: executionResult.CombinedOutput,
		}
	}

	if command.RaiseErrors {
		invocationLogger.Debug(logMessageFailureReturnedConstant)
		return false, failure
	}

	classifiedFailure := ClassifyFailure(executor.interpreter, failure)
	executor.failureReporter.ReportFailure(executor.messageFormatter.BuildMessage(command, classifiedFailure))
	invocationLogger.Debug(logMessageFailureReportedConstant, zap.Stringer(logFieldFailureKindConstant, classifiedFailure.Kind))

	return false, nil
}
