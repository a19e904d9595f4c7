package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	workflowExecutorDependenciesMessage = "workflow executor requires a command executor"
	stepFailedErrorTemplateConstant     = "workflow step %s failed: %v"
	workflowStepStartedMessageConstant  = "workflow step started"
	workflowStepFinishedMessageConstant = "workflow step finished"
	workflowStoppedMessageConstant      = "workflow stopped after failed step"
	workflowStepFieldConstant           = "step"
	workflowStepSucceededFieldConstant  = "succeeded"
	workflowSkippedStepsFieldConstant   = "skipped_steps"
)

// ErrCommandExecutorNotConfigured indicates that the executor was built without a command executor.
var ErrCommandExecutorNotConfigured = errors.New(workflowExecutorDependenciesMessage)

// Dependencies configures shared collaborators for workflow execution.
type Dependencies struct {
	Logger          *zap.Logger
	CommandExecutor CommandExecutor
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	ContinueOnFailure bool
}

// Summary lists step names by outcome. Steps never started because of an earlier failure appear in Skipped.
type Summary struct {
	Succeeded []string
	Failed    []string
	Skipped   []string
}

// HasFailures reports whether any step failed.
func (summary Summary) HasFailures() bool {
	return len(summary.Failed) > 0
}

// StepFailedError wraps a failure that a raise-mode step propagated.
type StepFailedError struct {
	StepName string
	Cause    error
}

// Error describes the failed step.
func (stepError *StepFailedError) Error() string {
	return fmt.Sprintf(stepFailedErrorTemplateConstant, stepError.StepName, stepError.Cause)
}

// Unwrap exposes the propagated failure, typically an *execshell.CommandFailedError.
func (stepError *StepFailedError) Unwrap() error {
	return stepError.Cause
}

// Executor runs workflow operations sequentially.
type Executor struct {
	operations   []Operation
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(operations []Operation, dependencies Dependencies) *Executor {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Executor{operations: append([]Operation{}, operations...), dependencies: dependencies}
}

// Execute runs every operation in order. A reported failure stops the workflow unless ContinueOnFailure is set;
// a propagated failure always stops it and is returned as a *StepFailedError alongside the partial summary.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) (Summary, error) {
	if executor.dependencies.CommandExecutor == nil {
		return Summary{}, ErrCommandExecutorNotConfigured
	}

	environment := &Environment{
		CommandExecutor: executor.dependencies.CommandExecutor,
		Logger:          executor.dependencies.Logger,
	}

	summary := Summary{}
	for operationIndex, operation := range executor.operations {
		if operation == nil {
			continue
		}

		executor.dependencies.Logger.Debug(workflowStepStartedMessageConstant, zap.String(workflowStepFieldConstant, operation.Name()))
		succeeded, executionError := operation.Execute(executionContext, environment)
		executor.dependencies.Logger.Debug(
			workflowStepFinishedMessageConstant,
			zap.String(workflowStepFieldConstant, operation.Name()),
			zap.Bool(workflowStepSucceededFieldConstant, succeeded),
		)

		if executionError != nil {
			summary.Failed = append(summary.Failed, operation.Name())
			summary.Skipped = appendOperationNames(summary.Skipped, executor.operations[operationIndex+1:])
			return summary, &StepFailedError{StepName: operation.Name(), Cause: executionError}
		}

		if succeeded {
			summary.Succeeded = append(summary.Succeeded, operation.Name())
			continue
		}

		summary.Failed = append(summary.Failed, operation.Name())
		if !runtimeOptions.ContinueOnFailure {
			summary.Skipped = appendOperationNames(summary.Skipped, executor.operations[operationIndex+1:])
			executor.dependencies.Logger.Debug(
				workflowStoppedMessageConstant,
				zap.String(workflowStepFieldConstant, operation.Name()),
				zap.Strings(workflowSkippedStepsFieldConstant, summary.Skipped),
			)
			return summary, nil
		}
	}

	return summary, nil
}

func appendOperationNames(names []string, operations []Operation) []string {
	for _, operation := range operations {
		if operation == nil {
			continue
		}
		names = append(names, operation.Name())
	}
	return names
}
