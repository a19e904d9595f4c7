package main

import (
	"fmt"
	"os"

	"github.com/temirov/shellrun/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the shellrun command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}
	if cli.ShouldPrintError(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitStatus(executionError))
}
