package execshell

const (
	signalExitCodeOffsetConstant = 128
	outOfMemoryHintConstant      = "The process was killed by the operating system, which often indicates an out-of-memory condition. " +
		"Consider freeing memory or running with more memory available."
)

// SignalInfo names a well-known fatal signal.
type SignalInfo struct {
	Number int
	Name   string
	Hint   string
}

var knownSignals = map[int]SignalInfo{
	1:  {Number: 1, Name: "SIGHUP"},
	2:  {Number: 2, Name: "SIGINT"},
	3:  {Number: 3, Name: "SIGQUIT"},
	4:  {Number: 4, Name: "SIGILL"},
	5:  {Number: 5, Name: "SIGTRAP"},
	6:  {Number: 6, Name: "SIGABRT"},
	7:  {Number: 7, Name: "SIGBUS"},
	8:  {Number: 8, Name: "SIGFPE"},
	9:  {Number: 9, Name: "SIGKILL", Hint: outOfMemoryHintConstant},
	10: {Number: 10, Name: "SIGUSR1"},
	11: {Number: 11, Name: "SIGSEGV"},
	12: {Number: 12, Name: "SIGUSR2"},
	13: {Number: 13, Name: "SIGPIPE"},
	14: {Number: 14, Name: "SIGALRM"},
	15: {Number: 15, Name: "SIGTERM"},
}

// LookupSignal returns the table entry for a signal number.
func LookupSignal(signalNumber int) (SignalInfo, bool) {
	signalInfo, known := knownSignals[signalNumber]
	return signalInfo, known
}

// SignalFromExitCode decodes the signal carried by an exit code.
// Negative codes carry the signal number directly; codes above 128 carry it as 128+N.
// Only signals present in the known table are returned.
func SignalFromExitCode(exitCode int) (SignalInfo, bool) {
	var signalNumber int
	switch {
	case exitCode < 0:
		signalNumber = -exitCode
	case exitCode > signalExitCodeOffsetConstant:
		signalNumber = exitCode - signalExitCodeOffsetConstant
	default:
		return SignalInfo{}, false
	}
	return LookupSignal(signalNumber)
}
