package workflow

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/dependencies"
	"github.com/temirov/shellrun/internal/execshell"
	flagutils "github.com/temirov/shellrun/internal/utils/flags"
	pathutils "github.com/temirov/shellrun/internal/utils/path"
	"github.com/temirov/shellrun/internal/workflow"
)

const (
	commandUseConstant                       = "workflow <workflow.yaml>"
	commandShortDescriptionConstant          = "Run the shell steps of a workflow file"
	commandLongDescriptionConstant           = "workflow executes the steps listed in a YAML file in order, explaining every failed step. Execution stops at the first failure unless --continue-on-failure is set."
	continueOnFailureFlagNameConstant        = "continue-on-failure"
	continueOnFailureFlagDescription         = "Run the remaining steps after a step fails"
	raiseErrorsFlagNameConstant              = "raise-errors"
	raiseErrorsFlagDescriptionConstant       = "Stop at the first failure and return it instead of reporting it"
	loadConfigurationErrorTemplateConstant   = "unable to load workflow configuration: %w"
	shellExecutorCreationErrorTemplate       = "unable to construct shell executor: %w"
	workflowSummaryTemplateConstant          = "Workflow finished: %d succeeded, %d failed, %d skipped"
	workflowFinishedMessageConstant          = "workflow finished"
	logFieldWorkflowPathConstant             = "workflow_path"
	logFieldSucceededStepsConstant           = "succeeded_steps"
	logFieldFailedStepsConstant              = "failed_steps"
	logFieldSkippedStepsConstant             = "skipped_steps"
	workflowConfigurationArgumentCountNeeded = 1
)

// CommandBuilder assembles the workflow command.
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

// Build constructs the workflow command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	var continueOnFailure bool
	var raiseErrors bool

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(workflowConfigurationArgumentCountNeeded),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments[0], continueOnFailure, raiseErrors)
		},
	}

	flagutils.AddToggleFlag(command.Flags(), &continueOnFailure, continueOnFailureFlagNameConstant, "", false, continueOnFailureFlagDescription)
	flagutils.AddToggleFlag(command.Flags(), &raiseErrors, raiseErrorsFlagNameConstant, "", false, raiseErrorsFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, workflowPath string, continueOnFailureFlag bool, raiseErrorsFlag bool) error {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(continueOnFailureFlagNameConstant) {
		configuration.ContinueOnFailure = continueOnFailureFlag
	}
	if command.Flags().Changed(raiseErrorsFlagNameConstant) {
		configuration.RaiseErrors = raiseErrorsFlag
	}

	logger := resolveLogger(builder.LoggerProvider)
	consoleLogger := resolveLogger(builder.ConsoleLoggerProvider)
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)

	configurationLoader := workflow.NewConfigurationLoader(fileSystem, builder.WorkingDirectoryResolver)
	workflowConfiguration, loadError := configurationLoader.LoadConfiguration(strings.TrimSpace(workflowPath))
	if loadError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, loadError)
	}

	interpreterConfiguration := execshell.DefaultInterpreterConfiguration()
	if builder.InterpreterProvider != nil {
		interpreterConfiguration = builder.InterpreterProvider()
	}

	humanReadableLogging := builder.HumanReadableLoggingProvider == nil || builder.HumanReadableLoggingProvider()
	shellExecutor, creationError := dependencies.ResolveShellExecutor(dependencies.ShellExecutorSettings{
		Logger:           logger,
		ConsoleLogger:    consoleLogger,
		CommandRunner:    builder.CommandRunner,
		FailureReporter:  builder.FailureReporter,
		Interpreter:      interpreterConfiguration.ShellInterpreter(),
		HumanReadableLog: humanReadableLogging,
		ErrorOutput:      command.ErrOrStderr(),
	})
	if creationError != nil {
		return fmt.Errorf(shellExecutorCreationErrorTemplate, creationError)
	}

	executor := workflow.NewExecutor(
		workflow.BuildOperations(workflowConfiguration, configuration.RaiseErrors),
		workflow.Dependencies{Logger: logger, CommandExecutor: shellExecutor},
	)

	summary, executionError := executor.Execute(command.Context(), workflow.RuntimeOptions{ContinueOnFailure: configuration.ContinueOnFailure})

	logger.Info(
		workflowFinishedMessageConstant,
		zap.String(logFieldWorkflowPathConstant, workflowPath),
		zap.Strings(logFieldSucceededStepsConstant, summary.Succeeded),
		zap.Strings(logFieldFailedStepsConstant, summary.Failed),
		zap.Strings(logFieldSkippedStepsConstant, summary.Skipped),
	)
	consoleLogger.Info(fmt.Sprintf(workflowSummaryTemplateConstant, len(summary.Succeeded), len(summary.Failed), len(summary.Skipped)))

	if executionError != nil {
		return executionError
	}
	if summary.HasFailures() {
		return execshell.ErrFailureReported
	}
	return nil
}
