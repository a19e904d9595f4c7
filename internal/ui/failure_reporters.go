package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/shellrun/internal/execshell"
	"github.com/temirov/shellrun/internal/utils"
)

const (
	errorLinePrefixConstant           = "ERROR: "
	errorLineTemplateConstant         = "%s%s\n"
	messageLineSeparatorConstant      = "\n"
	failureReportedLogMessageConstant = "shell command failure"
	failureMessageLogFieldConstant    = "diagnostic"
)

// ConsoleFailureReporter writes failure diagnostics to a stream, prefixing every line with ERROR.
type ConsoleFailureReporter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewConsoleFailureReporter constructs a reporter writing to writer, or to standard error when writer is nil.
func NewConsoleFailureReporter(writer io.Writer) *ConsoleFailureReporter {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleFailureReporter{writer: utils.NewFlushingWriter(writer)}
}

// ReportFailure implements execshell.FailureReporter.
func (reporter *ConsoleFailureReporter) ReportFailure(message string) {
	if reporter == nil {
		return
	}

	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	for _, messageLine := range strings.Split(strings.TrimRight(message, messageLineSeparatorConstant), messageLineSeparatorConstant) {
		if len(messageLine) == 0 {
			_, _ = io.WriteString(reporter.writer, messageLineSeparatorConstant)
			continue
		}
		_, _ = fmt.Fprintf(reporter.writer, errorLineTemplateConstant, errorLinePrefixConstant, messageLine)
	}
}

// LoggerFailureReporter emits failure diagnostics through a zap logger at error level.
type LoggerFailureReporter struct {
	logger *zap.Logger
}

// NewLoggerFailureReporter constructs a reporter backed by logger.
func NewLoggerFailureReporter(logger *zap.Logger) *LoggerFailureReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerFailureReporter{logger: logger}
}

// ReportFailure implements execshell.FailureReporter.
func (reporter *LoggerFailureReporter) ReportFailure(message string) {
	if reporter == nil {
		return
	}
	reporter.logger.Error(failureReportedLogMessageConstant, zap.String(failureMessageLogFieldConstant, message))
}

var (
	_ execshell.FailureReporter = (*ConsoleFailureReporter)(nil)
	_ execshell.FailureReporter = (*LoggerFailureReporter)(nil)
)
