// Package execshell runs command lines through a system shell and diagnoses their failures.
//
// ShellExecutor invokes the configured interpreter through a CommandRunner,
// captures combined output, and either returns the failure to the caller or
// classifies it into an exit-code, fatal-signal, missing-interpreter, or
// unclassified diagnostic that is handed to a FailureReporter.
package execshell
