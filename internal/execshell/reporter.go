package execshell

// FailureReporter receives rendered failure diagnostics.
type FailureReporter interface {
	ReportFailure(message string)
}

// FailureReporterFunc adapts a function to FailureReporter.
type FailureReporterFunc func(message string)

// ReportFailure calls the wrapped function.
func (reporterFunc FailureReporterFunc) ReportFailure(message string) {
	if reporterFunc == nil {
		return
	}
	reporterFunc(message)
}
