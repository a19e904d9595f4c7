package run

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/dependencies"
	"github.com/temirov/shellrun/internal/execshell"
	flagutils "github.com/temirov/shellrun/internal/utils/flags"
	pathutils "github.com/temirov/shellrun/internal/utils/path"
)

const (
	commandUseConstant                 = "run [flags] [--] <command...>"
	commandShortDescriptionConstant    = "Run a shell command and report why it failed"
	commandLongDescriptionConstant     = "run executes the arguments, joined by spaces, as one command line through the configured shell. A failed command is explained on standard error; with --raise-errors the failure is returned instead."
	commandExampleConstant             = "  shellrun run -- make all\n  shellrun run --env STAGE=ci --cwd ~/src/app -- ./build.sh --release"
	raiseErrorsFlagNameConstant        = "raise-errors"
	raiseErrorsFlagDescriptionConstant = "Return the failure instead of reporting it"
	environmentFlagNameConstant        = "env"
	environmentFlagShorthandConstant   = "e"
	environmentFlagDescriptionConstant = "Additional environment variable as KEY=VALUE (repeatable)"
	environmentFileFlagNameConstant    = "env-file"
	environmentFileFlagDescription     = "Load additional environment variables from a dotenv file (repeatable)"
	workingDirectoryFlagNameConstant   = "cwd"
	workingDirectoryFlagDescription    = "Directory to run the command in"
	shellFlagNameConstant              = "shell"
	shellFlagDescriptionConstant       = "Interpreter used to run the command line"
	strictFlagNameConstant             = "strict"
	strictFlagDescriptionConstant      = "Prefix the command line with set -euo pipefail"
	commandLineSeparatorConstant       = " "
	missingCommandMessageConstant      = "a command to run is required"
	environmentResolveErrorTemplate    = "unable to resolve command environment: %w"
	shellExecutorCreationErrorTemplate = "unable to construct shell executor: %w"
	runCommandInvokedMessageConstant   = "run command invoked"
	logFieldCommandLineConstant        = "command_line"
	logFieldRaiseErrorsConstant        = "raise_errors"
	logFieldInterpreterConstant        = "interpreter"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldEnvironmentVariableCount   = "environment_variable_count"
)

// ErrCommandLineMissing indicates that run was invoked without a command.
var ErrCommandLineMissing = errors.New(missingCommandMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	InterpreterProvider          func() execshell.InterpreterConfiguration
	CommandRunner                execshell.CommandRunner
	FailureReporter              execshell.FailureReporter
	FileSystem                   afero.Fs
	WorkingDirectoryResolver     *pathutils.WorkingDirectoryResolver
}

type commandFlagValues struct {
	raiseErrors      bool
	environment      []string
	environmentFiles []string
	workingDirectory string
	interpreterPath  string
	strictMode       bool
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &commandFlagValues{}

	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, flagValues)
		},
	}

	command.Flags().SetInterspersed(false)
	flagutils.AddToggleFlag(command.Flags(), &flagValues.raiseErrors, raiseErrorsFlagNameConstant, "", false, raiseErrorsFlagDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &flagValues.strictMode, strictFlagNameConstant, "", true, strictFlagDescriptionConstant)
	command.Flags().StringArrayVarP(&flagValues.environment, environmentFlagNameConstant, environmentFlagShorthandConstant, nil, environmentFlagDescriptionConstant)
	command.Flags().StringArrayVar(&flagValues.environmentFiles, environmentFileFlagNameConstant, nil, environmentFileFlagDescription)
	command.Flags().StringVar(&flagValues.workingDirectory, workingDirectoryFlagNameConstant, "", workingDirectoryFlagDescription)
	command.Flags().StringVar(&flagValues.interpreterPath, shellFlagNameConstant, "", shellFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, flagValues *commandFlagValues) error {
	commandLine := strings.TrimSpace(strings.Join(arguments, commandLineSeparatorConstant))
	if len(commandLine) == 0 {
		return ErrCommandLineMissing
	}

	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)

	raiseErrors := configuration.RaiseErrors
	if command.Flags().Changed(raiseErrorsFlagNameConstant) {
		raiseErrors = flagValues.raiseErrors
	}

	workingDirectoryCandidate := configuration.WorkingDirectory
	if command.Flags().Changed(workingDirectoryFlagNameConstant) {
		workingDirectoryCandidate = flagValues.workingDirectory
	}
	workingDirectory := builder.resolveWorkingDirectoryResolver().Resolve(workingDirectoryCandidate, "")

	extraEnvironment, environmentError := environmentSources{
		configured:  configuration.Environment,
		files:       flagValues.environmentFiles,
		assignments: flagValues.environment,
	}.resolve(dependencies.ResolveFileSystem(builder.FileSystem))
	if environmentError != nil {
		return fmt.Errorf(environmentResolveErrorTemplate, environmentError)
	}

	interpreter := builder.resolveInterpreter(command, flagValues)

	logger.Debug(
		runCommandInvokedMessageConstant,
		zap.String(logFieldCommandLineConstant, commandLine),
		zap.Bool(logFieldRaiseErrorsConstant, raiseErrors),
		zap.String(logFieldInterpreterConstant, interpreter.Path),
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
		zap.Int(logFieldEnvironmentVariableCount, len(extraEnvironment)),
	)

	shellExecutor, creationError := dependencies.ResolveShellExecutor(dependencies.ShellExecutorSettings{
		Logger:           logger,
		ConsoleLogger:    resolveLogger(builder.ConsoleLoggerProvider),
		CommandRunner:    builder.CommandRunner,
		FailureReporter:  builder.FailureReporter,
		Interpreter:      interpreter,
		HumanReadableLog: builder.humanReadableLoggingEnabled(),
		ErrorOutput:      command.ErrOrStderr(),
	})
	if creationError != nil {
		return fmt.Errorf(shellExecutorCreationErrorTemplate, creationError)
	}

	shellCommand := execshell.NewShellCommand(
		commandLine,
		execshell.WithRaiseErrors(raiseErrors),
		execshell.WithExtraEnvironment(extraEnvironment),
		execshell.WithWorkingDirectory(workingDirectory),
	)

	succeeded, executionError := shellExecutor.Execute(command.Context(), shellCommand)
	if executionError != nil {
		return executionError
	}
	if !succeeded {
		return execshell.ErrFailureReported
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveInterpreter(command *cobra.Command, flagValues *commandFlagValues) execshell.ShellInterpreter {
	interpreterConfiguration := execshell.DefaultInterpreterConfiguration()
	if builder.InterpreterProvider != nil {
		interpreterConfiguration = builder.InterpreterProvider()
	}
	if command.Flags().Changed(shellFlagNameConstant) {
		interpreterConfiguration.Interpreter = flagValues.interpreterPath
	}
	if command.Flags().Changed(strictFlagNameConstant) {
		interpreterConfiguration.StrictMode = flagValues.strictMode
	}
	return interpreterConfiguration.ShellInterpreter()
}

func (builder *CommandBuilder) resolveWorkingDirectoryResolver() *pathutils.WorkingDirectoryResolver {
	if builder.WorkingDirectoryResolver != nil {
		return builder.WorkingDirectoryResolver
	}
	return pathutils.NewWorkingDirectoryResolver()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return true
	}
	return builder.HumanReadableLoggingProvider()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
