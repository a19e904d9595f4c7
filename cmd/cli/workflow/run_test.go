package workflow_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	workflowcmd "github.com/temirov/shellrun/cmd/cli/workflow"
	"github.com/temirov/shellrun/internal/execshell"
	"github.com/temirov/shellrun/internal/workflow"
)

const (
	testWorkflowPathConstant    = "/plans/release.yaml"
	testWorkflowContentConstant = `steps:
  - name: prepare
    command: mkdir -p out
  - name: build
    command: make all
    environment:
      JOBS: 4
  - name: publish
    command: make publish
`
)

type exitCodeCommandRunner struct {
	exitCodes    map[string]int
	commandLines []string
	environments [][]string
}

func (runner *exitCodeCommandRunner) Run(_ context.Context, invocation execshell.ProcessInvocation) (execshell.ExecutionResult, error) {
	scriptText := invocation.Arguments[len(invocation.Arguments)-1]
	commandLine := strings.TrimPrefix(scriptText, "set -euo pipefail; ")
	runner.commandLines = append(runner.commandLines, commandLine)
	runner.environments = append(runner.environments, invocation.Environment)
	return execshell.ExecutionResult{ExitCode: runner.exitCodes[commandLine]}, nil
}

type workflowCommandHarness struct {
	command      *cobra.Command
	runner       *exitCodeCommandRunner
	errorOutput  *bytes.Buffer
	observedLogs *observer.ObservedLogs
}

func newWorkflowCommandHarness(testInstance *testing.T, exitCodes map[string]int, configuration workflowcmd.CommandConfiguration) workflowCommandHarness {
	testInstance.Helper()

	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(fileSystem, testWorkflowPathConstant, []byte(testWorkflowContentConstant), 0o600))

	commandRunner := &exitCodeCommandRunner{exitCodes: exitCodes}
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)

	builder := workflowcmd.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.New(observerCore) },
		ConfigurationProvider: func() workflowcmd.CommandConfiguration { return configuration },
		CommandRunner:         commandRunner,
		FileSystem:            fileSystem,
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	errorOutput := &bytes.Buffer{}
	command.SetErr(errorOutput)
	command.SetOut(&bytes.Buffer{})
	command.SilenceUsage = true
	command.SilenceErrors = true

	return workflowCommandHarness{command: command, runner: commandRunner, errorOutput: errorOutput, observedLogs: observedLogs}
}

func (harness workflowCommandHarness) execute(arguments ...string) error {
	harness.command.SetArgs(append([]string{}, arguments...))
	return harness.command.ExecuteContext(context.Background())
}

func TestWorkflowCommandRunsAllSteps(testInstance *testing.T) {
	harness := newWorkflowCommandHarness(testInstance, nil, workflowcmd.DefaultCommandConfiguration())

	require.NoError(testInstance, harness.execute(testWorkflowPathConstant))

	require.Equal(testInstance, []string{"mkdir -p out", "make all", "make publish"}, harness.runner.commandLines)
	require.Contains(testInstance, harness.runner.environments[1], "JOBS=4")
	require.Empty(testInstance, harness.errorOutput.String())

	finishedEntries := harness.observedLogs.FilterMessage("workflow finished").All()
	require.Len(testInstance, finishedEntries, 1)
	require.Equal(testInstance, testWorkflowPathConstant, finishedEntries[0].ContextMap()["workflow_path"])
}

func TestWorkflowCommandFailureHandling(testInstance *testing.T) {
	testCases := []struct {
		name             string
		configuration    workflowcmd.CommandConfiguration
		arguments        []string
		expectedCommands []string
		expectReported   bool
	}{
		{
			name:             "stops_at_failure",
			configuration:    workflowcmd.DefaultCommandConfiguration(),
			arguments:        []string{testWorkflowPathConstant},
			expectedCommands: []string{"mkdir -p out", "make all"},
			expectReported:   true,
		},
		{
			name:             "continue_flag",
			configuration:    workflowcmd.DefaultCommandConfiguration(),
			arguments:        []string{"--continue-on-failure", testWorkflowPathConstant},
			expectedCommands: []string{"mkdir -p out", "make all", "make publish"},
			expectReported:   true,
		},
		{
			name:             "continue_configuration",
			configuration:    workflowcmd.CommandConfiguration{ContinueOnFailure: true},
			arguments:        []string{testWorkflowPathConstant},
			expectedCommands: []string{"mkdir -p out", "make all", "make publish"},
			expectReported:   true,
		},
		{
			name:             "raise_errors",
			configuration:    workflowcmd.CommandConfiguration{ContinueOnFailure: true},
			arguments:        []string{"--raise-errors", testWorkflowPathConstant},
			expectedCommands: []string{"mkdir -p out", "make all"},
			expectReported:   false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newWorkflowCommandHarness(testInstance, map[string]int{"make all": 2}, testCase.configuration)

			executionError := harness.execute(testCase.arguments...)

			require.Equal(testInstance, testCase.expectedCommands, harness.runner.commandLines)
			if testCase.expectReported {
				require.ErrorIs(testInstance, executionError, execshell.ErrFailureReported)
				require.Equal(testInstance, "ERROR: Shell exited 2 when running: make all\n", harness.errorOutput.String())
				return
			}

			var stepError *workflow.StepFailedError
			require.ErrorAs(testInstance, executionError, &stepError)
			require.Equal(testInstance, "build", stepError.StepName)
			var commandFailure *execshell.CommandFailedError
			require.ErrorAs(testInstance, executionError, &commandFailure)
			require.Equal(testInstance, 2, commandFailure.ExitCode)
			require.Empty(testInstance, harness.errorOutput.String())
		})
	}
}

func TestWorkflowCommandRejectsMissingFile(testInstance *testing.T) {
	harness := newWorkflowCommandHarness(testInstance, nil, workflowcmd.DefaultCommandConfiguration())

	executionError := harness.execute("/plans/absent.yaml")

	require.ErrorContains(testInstance, executionError, "unable to load workflow configuration")
	require.Empty(testInstance, harness.runner.commandLines)
}

func TestWorkflowCommandRequiresSinglePath(testInstance *testing.T) {
	harness := newWorkflowCommandHarness(testInstance, nil, workflowcmd.DefaultCommandConfiguration())

	require.Error(testInstance, harness.execute())
}
