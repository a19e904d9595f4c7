package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationCommandTimeout        = 60 * time.Second
	integrationBinaryNameConstant    = "shellrun"
	integrationLogFormatEnvironment  = "SHELLRUN_COMMON_LOG_FORMAT"
	integrationStructuredFailureText = "\"msg\":\"shell command failure\""
)

func buildIntegrationBinary(testInstance *testing.T) string {
	testInstance.Helper()
	if testing.Short() {
		testInstance.Skip("integration test skipped in short mode")
	}
	goToolPath, lookupError := exec.LookPath("go")
	if lookupError != nil {
		testInstance.Skip("go toolchain is not available")
	}

	binaryPath := filepath.Join(testInstance.TempDir(), integrationBinaryNameConstant)
	executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancel()

	buildCommand := exec.CommandContext(executionContext, goToolPath, "build", "-o", binaryPath, ".")
	buildOutput, buildError := buildCommand.CombinedOutput()
	require.NoError(testInstance, buildError, string(buildOutput))
	return binaryPath
}

func TestShellrunExitStatuses(testInstance *testing.T) {
	shellPath, shellLookupError := exec.LookPath("sh")
	if shellLookupError != nil {
		testInstance.Skip("sh is not available")
	}
	binaryPath := buildIntegrationBinary(testInstance)

	testCases := []struct {
		name               string
		arguments          []string
		environment        []string
		expectedExitStatus int
		expectedStderr     []string
		unexpectedStderr   []string
	}{
		{
			name:               "success",
			arguments:          []string{"run", "--shell", shellPath, "--strict=no", "--", "true"},
			expectedExitStatus: 0,
			unexpectedStderr:   []string{"ERROR:"},
		},
		{
			name:               "reported_failure",
			arguments:          []string{"run", "--shell", shellPath, "--strict=no", "--", "echo oops; exit 5"},
			expectedExitStatus: 1,
			expectedStderr:     []string{"ERROR: Shell exited 5 when running: echo oops; exit 5", "ERROR:   oops"},
			unexpectedStderr:   []string{"already reported"},
		},
		{
			name:               "raised_failure",
			arguments:          []string{"run", "--raise-errors", "--shell", shellPath, "--strict=no", "--", "exit 6"},
			expectedExitStatus: 6,
			expectedStderr:     []string{"shell command failed: exit code 6 when running: exit 6"},
			unexpectedStderr:   []string{"ERROR:"},
		},
		{
			name:               "structured_failure",
			arguments:          []string{"run", "--shell", shellPath, "--strict=no", "--", "exit 5"},
			environment:        []string{integrationLogFormatEnvironment + "=structured"},
			expectedExitStatus: 1,
			expectedStderr:     []string{integrationStructuredFailureText, "Shell exited 5 when running: exit 5"},
		},
		{
			name:               "missing_interpreter",
			arguments:          []string{"run", "--shell", "/nonexistent/shell", "--", "true"},
			expectedExitStatus: 1,
			expectedStderr:     []string{"ERROR: Unable to run shell commands using /nonexistent/shell"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
			defer cancel()

			command := exec.CommandContext(executionContext, binaryPath, testCase.arguments...)
			command.Dir = testInstance.TempDir()
			command.Env = append(append([]string{}, os.Environ()...), testCase.environment...)
			var standardError strings.Builder
			command.Stderr = &standardError

			runError := command.Run()

			exitStatus := 0
			var exitError *exec.ExitError
			if errors.As(runError, &exitError) {
				exitStatus = exitError.ExitCode()
			} else {
				require.NoError(testInstance, runError)
			}
			require.Equal(testInstance, testCase.expectedExitStatus, exitStatus, standardError.String())
			for _, expectedText := range testCase.expectedStderr {
				require.Contains(testInstance, standardError.String(), expectedText)
			}
			for _, unexpectedText := range testCase.unexpectedStderr {
				require.NotContains(testInstance, standardError.String(), unexpectedText)
			}
		})
	}
}
