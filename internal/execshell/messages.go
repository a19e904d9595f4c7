package execshell

import (
	"fmt"
	"strings"
)

const (
	interpreterMissingTemplateConstant     = "Unable to run shell commands using %s"
	fatalSignalTemplateConstant            = "Shell exited from fatal signal %s when running: %s"
	exitCodeTemplateConstant               = "Shell exited %d when running: %s"
	commandOutputHeaderConstant            = "Command output was:"
	commandOutputIndentConstant            = "  "
	paragraphSeparatorConstant             = "\n\n"
	lineSeparatorConstant                  = "\n"
	unknownFailureMessageConstant          = "unknown error"
	startedMessageTemplateConstant         = "Running %s"
	succeededMessageTemplateConstant       = "Completed %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	invalidUTF8ReplacementConstant         = "\uFFFD"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events and failures.
type CommandMessageFormatter struct{}

// BuildMessage renders exactly one diagnostic for the failure of command.
func (formatter CommandMessageFormatter) BuildMessage(command ShellCommand, failure Failure) string {
	switch failure.Kind {
	case FailureKindInterpreterMissing:
		return fmt.Sprintf(interpreterMissingTemplateConstant, failure.InterpreterPath)
	case FailureKindSignal:
		return formatter.buildSignalMessage(command, failure)
	case FailureKindExitCode:
		return formatter.buildExitCodeMessage(command, failure)
	default:
		return formatter.describeCause(failure.Cause)
	}
}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a command that exited with status zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(succeededMessageTemplateConstant, formatter.formatCommandLabel(command))
}

func (formatter CommandMessageFormatter) buildSignalMessage(command ShellCommand, failure Failure) string {
	message := fmt.Sprintf(fatalSignalTemplateConstant, failure.Signal.Name, command.CommandLine)
	if len(failure.Signal.Hint) == 0 {
		return message
	}
	return message + paragraphSeparatorConstant + failure.Signal.Hint
}

func (formatter CommandMessageFormatter) buildExitCodeMessage(command ShellCommand, failure Failure) string {
	message := fmt.Sprintf(exitCodeTemplateConstant, failure.ExitCode, command.CommandLine)
	decodedOutput := strings.TrimRight(strings.ToValidUTF8(string(failure.CombinedOutput), invalidUTF8ReplacementConstant), lineSeparatorConstant)
	if len(strings.TrimSpace(decodedOutput)) == 0 {
		return message
	}

	outputLines := strings.Split(decodedOutput, lineSeparatorConstant)
	for lineIndex, outputLine := range outputLines {
		outputLines[lineIndex] = commandOutputIndentConstant + outputLine
	}
	return message + paragraphSeparatorConstant + commandOutputHeaderConstant + lineSeparatorConstant + strings.Join(outputLines, lineSeparatorConstant)
}

func (formatter CommandMessageFormatter) describeCause(cause error) string {
	if cause == nil {
		return unknownFailureMessageConstant
	}
	return cause.Error()
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return command.CommandLine
	}
	return command.CommandLine + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}
