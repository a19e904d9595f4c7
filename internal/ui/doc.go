// Package ui provides helpers for presenting shell command activity to humans.
//
// ConsoleCommandEventLogger turns execshell lifecycle events into concise
// console log lines, while ConsoleFailureReporter and LoggerFailureReporter are
// the sinks that receive rendered failure diagnostics.
package ui
