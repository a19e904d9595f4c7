package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/execshell"
)

// CommandExecutor runs a shell command and reports whether it succeeded.
// *execshell.ShellExecutor satisfies it.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (bool, error)
}

// Operation is a single executable workflow step.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment) (bool, error)
}

// Environment exposes shared collaborators to workflow operations.
type Environment struct {
	CommandExecutor CommandExecutor
	Logger          *zap.Logger
}

// ShellStepOperation runs one configured shell command.
type ShellStepOperation struct {
	StepName string
	Command  execshell.ShellCommand
}

// Name returns the step name.
func (operation *ShellStepOperation) Name() string {
	return operation.StepName
}

// Execute delegates to the environment's command executor.
func (operation *ShellStepOperation) Execute(executionContext context.Context, environment *Environment) (bool, error) {
	return environment.CommandExecutor.Execute(executionContext, operation.Command)
}

// BuildOperations converts the declarative configuration into executable operations.
// Steps that do not set raise_errors inherit defaultRaiseErrors; an explicit value, true or false, wins.
func BuildOperations(configuration Configuration, defaultRaiseErrors bool) []Operation {
	operations := make([]Operation, 0, len(configuration.Steps))
	for _, step := range configuration.Steps {
		raiseErrors := defaultRaiseErrors
		if step.RaiseErrors != nil {
			raiseErrors = *step.RaiseErrors
		}
		operations = append(operations, &ShellStepOperation{
			StepName: step.Name,
			Command: execshell.NewShellCommand(
				step.Command,
				execshell.WithRaiseErrors(raiseErrors),
				execshell.WithExtraEnvironment(step.Environment),
				execshell.WithWorkingDirectory(step.WorkingDirectory),
			),
		})
	}
	return operations
}
