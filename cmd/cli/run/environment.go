package run

import (
	"fmt"
	"maps"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentInvalidTemplate   = "invalid environment assignment %q; expected KEY=VALUE"
	environmentFileOpenErrorTemplate       = "unable to open environment file %s: %w"
	environmentFileParseErrorTemplate      = "unable to parse environment file %s: %w"
)

// environmentSources lists the layers merged into a command's extra environment, lowest precedence first.
type environmentSources struct {
	configured  []string
	files       []string
	assignments []string
}

func (sources environmentSources) resolve(fileSystem afero.Fs) (map[string]string, error) {
	resolvedEnvironment := map[string]string{}
	if applyError := applyAssignments(resolvedEnvironment, sources.configured); applyError != nil {
		return nil, applyError
	}

	for _, environmentFilePath := range sources.files {
		fileEnvironment, readError := readEnvironmentFile(fileSystem, environmentFilePath)
		if readError != nil {
			return nil, readError
		}
		maps.Copy(resolvedEnvironment, fileEnvironment)
	}

	if applyError := applyAssignments(resolvedEnvironment, sources.assignments); applyError != nil {
		return nil, applyError
	}
	return resolvedEnvironment, nil
}

func applyAssignments(environment map[string]string, assignments []string) error {
	for _, assignment := range assignments {
		environmentKey, environmentValue, parseError := parseEnvironmentAssignment(assignment)
		if parseError != nil {
			return parseError
		}
		environment[environmentKey] = environmentValue
	}
	return nil
}

func readEnvironmentFile(fileSystem afero.Fs, environmentFilePath string) (map[string]string, error) {
	environmentFile, openError := fileSystem.Open(environmentFilePath)
	if openError != nil {
		return nil, fmt.Errorf(environmentFileOpenErrorTemplate, environmentFilePath, openError)
	}
	defer environmentFile.Close()

	fileEnvironment, parseError := godotenv.Parse(environmentFile)
	if parseError != nil {
		return nil, fmt.Errorf(environmentFileParseErrorTemplate, environmentFilePath, parseError)
	}
	return fileEnvironment, nil
}

func parseEnvironmentAssignment(assignment string) (string, string, error) {
	environmentKey, environmentValue, found := strings.Cut(assignment, environmentAssignmentSeparatorConstant)
	environmentKey = strings.TrimSpace(environmentKey)
	if !found || len(environmentKey) == 0 {
		return "", "", fmt.Errorf(environmentAssignmentInvalidTemplate, assignment)
	}
	return environmentKey, environmentValue, nil
}
