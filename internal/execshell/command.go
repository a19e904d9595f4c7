package execshell

import (
	"context"
	"path/filepath"
	"strings"
)

const (
	defaultInterpreterPathConstant     = "/bin/bash"
	defaultInterpreterArgumentConstant = "-c"
	strictModePreambleConstant         = "set -euo pipefail; "
	portableStrictModePreambleConstant = "set -eu; "
)

// pipefailInterpreterNames lists the shells known to accept "set -o pipefail"; POSIX sh variants such as dash reject it.
var pipefailInterpreterNames = map[string]struct{}{
	"bash": {},
	"zsh":  {},
	"ksh":  {},
	"mksh": {},
}

// ShellCommand describes a single command line executed through the shell.
type ShellCommand struct {
	CommandLine      string
	RaiseErrors      bool
	ExtraEnvironment map[string]string
	WorkingDirectory string
}

// ShellCommandOption customizes a ShellCommand during construction.
type ShellCommandOption func(command *ShellCommand)

// WithRaiseErrors controls whether failures are returned to the caller instead of reported.
func WithRaiseErrors(raiseErrors bool) ShellCommandOption {
	return func(command *ShellCommand) {
		command.RaiseErrors = raiseErrors
	}
}

// WithExtraEnvironment overlays the supplied variables on the inherited environment.
func WithExtraEnvironment(extraEnvironment map[string]string) ShellCommandOption {
	return func(command *ShellCommand) {
		if command.ExtraEnvironment == nil {
			command.ExtraEnvironment = make(map[string]string, len(extraEnvironment))
		}
		for environmentKey, environmentValue := range extraEnvironment {
			command.ExtraEnvironment[environmentKey] = environmentValue
		}
	}
}

// WithWorkingDirectory runs the command from the provided directory.
func WithWorkingDirectory(workingDirectory string) ShellCommandOption {
	return func(command *ShellCommand) {
		command.WorkingDirectory = workingDirectory
	}
}

// NewShellCommand stores the command line and its options without executing anything.
func NewShellCommand(commandLine string, options ...ShellCommandOption) ShellCommand {
	command := ShellCommand{
		CommandLine:      commandLine,
		ExtraEnvironment: map[string]string{},
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&command)
	}
	return command
}

// ShellInterpreter identifies the shell binary and the arguments preceding the command line.
// StrictMode prefixes the command line with "set -euo pipefail; " for shells that support pipefail
// and with the portable "set -eu; " for any other interpreter.
type ShellInterpreter struct {
	Path       string
	Arguments  []string
	StrictMode bool
}

// DefaultShellInterpreter returns the Bourne-compatible interpreter used when none is configured.
func DefaultShellInterpreter() ShellInterpreter {
	return ShellInterpreter{
		Path:       defaultInterpreterPathConstant,
		Arguments:  []string{defaultInterpreterArgumentConstant},
		StrictMode: true,
	}
}

// InterpreterConfiguration is the persisted form of a ShellInterpreter.
type InterpreterConfiguration struct {
	Interpreter string   `mapstructure:"interpreter"`
	Arguments   []string `mapstructure:"arguments"`
	StrictMode  bool     `mapstructure:"strict_mode"`
}

// DefaultInterpreterConfiguration mirrors DefaultShellInterpreter.
func DefaultInterpreterConfiguration() InterpreterConfiguration {
	defaultInterpreter := DefaultShellInterpreter()
	return InterpreterConfiguration{
		Interpreter: defaultInterpreter.Path,
		Arguments:   defaultInterpreter.Arguments,
		StrictMode:  defaultInterpreter.StrictMode,
	}
}

// ShellInterpreter converts the configuration, trimming blank arguments and falling back to defaults for empty values.
func (configuration InterpreterConfiguration) ShellInterpreter() ShellInterpreter {
	trimmedArguments := make([]string, 0, len(configuration.Arguments))
	for _, argument := range configuration.Arguments {
		if trimmedArgument := strings.TrimSpace(argument); len(trimmedArgument) > 0 {
			trimmedArguments = append(trimmedArguments, trimmedArgument)
		}
	}
	return ShellInterpreter{
		Path:       strings.TrimSpace(configuration.Interpreter),
		Arguments:  trimmedArguments,
		StrictMode: configuration.StrictMode,
	}.normalize()
}

func (interpreter ShellInterpreter) normalize() ShellInterpreter {
	normalized := interpreter
	if len(normalized.Path) == 0 {
		normalized.Path = defaultInterpreterPathConstant
	}
	if len(normalized.Arguments) == 0 {
		normalized.Arguments = []string{defaultInterpreterArgumentConstant}
	} else {
		normalized.Arguments = append([]string{}, normalized.Arguments...)
	}
	return normalized
}

func (interpreter ShellInterpreter) buildArguments(commandLine string) []string {
	scriptText := commandLine
	if interpreter.StrictMode {
		scriptText = interpreter.strictModePreamble() + commandLine
	}
	arguments := append([]string{}, interpreter.Arguments...)
	return append(arguments, scriptText)
}

func (interpreter ShellInterpreter) strictModePreamble() string {
	if _, supportsPipefail := pipefailInterpreterNames[filepath.Base(interpreter.Path)]; supportsPipefail {
		return strictModePreambleConstant
	}
	return portableStrictModePreambleConstant
}

// ProcessInvocation is the fully resolved process a CommandRunner starts.
type ProcessInvocation struct {
	Executable       string
	Arguments        []string
	Environment      []string
	WorkingDirectory string
}

// ExecutionResult captures the combined output and exit status of a finished process.
// A negative ExitCode carries the number of the signal that terminated the process.
type ExecutionResult struct {
	CombinedOutput []byte
	ExitCode       int
}

// CommandRunner starts a process and waits for it to finish.
// An error is returned only when the process could not be run at all.
type CommandRunner interface {
	Run(executionContext context.Context, invocation ProcessInvocation) (ExecutionResult, error)
}
