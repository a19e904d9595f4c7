// Package dependencies supplies production defaults for collaborators that commands accept as optional overrides.
package dependencies

import (
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/execshell"
	"github.com/temirov/shellrun/internal/ui"
)

// ShellExecutorSettings groups the inputs needed to assemble a ShellExecutor.
type ShellExecutorSettings struct {
	Logger           *zap.Logger
	ConsoleLogger    *zap.Logger
	CommandRunner    execshell.CommandRunner
	FailureReporter  execshell.FailureReporter
	Interpreter      execshell.ShellInterpreter
	HumanReadableLog bool
	ErrorOutput      io.Writer
}

// ResolveFileSystem returns the provided file system or an OS-backed default.
func ResolveFileSystem(existing afero.Fs) afero.Fs {
	if existing != nil {
		return existing
	}
	return afero.NewOsFs()
}

// ResolveCommandRunner returns the provided runner or the os/exec backed default.
func ResolveCommandRunner(existing execshell.CommandRunner) execshell.CommandRunner {
	if existing != nil {
		return existing
	}
	return execshell.NewOSCommandRunner()
}

// ResolveFailureReporter returns the provided reporter or picks one matching the log format:
// ERROR-prefixed lines on errorOutput for console logging, an error-level log entry otherwise.
func ResolveFailureReporter(existing execshell.FailureReporter, humanReadableLog bool, errorOutput io.Writer, logger *zap.Logger) execshell.FailureReporter {
	if existing != nil {
		return existing
	}
	if humanReadableLog {
		return ui.NewConsoleFailureReporter(errorOutput)
	}
	return ui.NewLoggerFailureReporter(logger)
}

// ResolveShellExecutor assembles a ShellExecutor, filling unset collaborators with defaults.
// Lifecycle messages go to the console logger only when console logging is enabled.
func ResolveShellExecutor(settings ShellExecutorSettings) (*execshell.ShellExecutor, error) {
	executorOptions := []execshell.ExecutorOption{execshell.WithInterpreter(settings.Interpreter)}
	if settings.HumanReadableLog && settings.ConsoleLogger != nil {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(settings.ConsoleLogger)))
	}

	return execshell.NewShellExecutor(
		settings.Logger,
		ResolveCommandRunner(settings.CommandRunner),
		ResolveFailureReporter(settings.FailureReporter, settings.HumanReadableLog, settings.ErrorOutput, settings.Logger),
		executorOptions...,
	)
}
