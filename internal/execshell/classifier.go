package execshell

import (
	"errors"
	"io/fs"
	"os/exec"
)

const chdirOperationConstant = "chdir"

// FailureKind enumerates the categories a failed invocation can fall into.
type FailureKind int

// Supported failure categories.
const (
	FailureKindUnclassified FailureKind = iota
	FailureKindExitCode
	FailureKindSignal
	FailureKindInterpreterMissing
)

var failureKindNames = map[FailureKind]string{
	FailureKindUnclassified:       "unclassified",
	FailureKindExitCode:           "exit_code",
	FailureKindSignal:             "signal",
	FailureKindInterpreterMissing: "interpreter_missing",
}

// String returns the log label of the category.
func (kind FailureKind) String() string {
	if name, known := failureKindNames[kind]; known {
		return name
	}
	return failureKindNames[FailureKindUnclassified]
}

// Failure is the classified shape of a failed invocation.
type Failure struct {
	Kind            FailureKind
	InterpreterPath string
	ExitCode        int
	Signal          SignalInfo
	CombinedOutput  []byte
	Cause           error
}

// ClassifyFailure maps an error returned by a shell invocation onto a Failure.
func ClassifyFailure(interpreter ShellInterpreter, failure error) Failure {
	normalizedInterpreter := interpreter.normalize()
	classified := Failure{
		Kind:            FailureKindUnclassified,
		InterpreterPath: normalizedInterpreter.Path,
		Cause:           failure,
	}

	if isInterpreterMissing(normalizedInterpreter.Path, failure) {
		classified.Kind = FailureKindInterpreterMissing
		return classified
	}

	var commandFailure *CommandFailedError
	if errors.As(failure, &commandFailure) {
		classified.ExitCode = commandFailure.ExitCode
		classified.CombinedOutput = commandFailure.CombinedOutput
		if signalInfo, known := SignalFromExitCode(commandFailure.ExitCode); known {
			classified.Kind = FailureKindSignal
			classified.Signal = signalInfo
			return classified
		}
		classified.Kind = FailureKindExitCode
		return classified
	}

	return classified
}

func isInterpreterMissing(interpreterPath string, failure error) bool {
	if failure == nil {
		return false
	}
	if errors.Is(failure, exec.ErrNotFound) {
		return true
	}
	var pathError *fs.PathError
	if !errors.As(failure, &pathError) {
		return false
	}
	if pathError.Op == chdirOperationConstant {
		return false
	}
	return pathError.Path == interpreterPath && errors.Is(pathError.Err, fs.ErrNotExist)
}
