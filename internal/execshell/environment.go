package execshell

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// EnvironmentProvider supplies the inherited process environment as KEY=VALUE assignments.
type EnvironmentProvider func() []string

// ComputeModifiedEnvironment overlays extraEnvironment on the inherited assignments.
// Entries from extraEnvironment replace inherited entries with the same name.
func ComputeModifiedEnvironment(inheritedEnvironment []string, extraEnvironment map[string]string) map[string]string {
	modifiedEnvironment := make(map[string]string, len(inheritedEnvironment)+len(extraEnvironment))
	for _, assignment := range inheritedEnvironment {
		environmentKey, environmentValue, hasSeparator := strings.Cut(assignment, environmentAssignmentSeparatorConstant)
		if !hasSeparator || len(environmentKey) == 0 {
			continue
		}
		modifiedEnvironment[environmentKey] = environmentValue
	}
	for environmentKey, environmentValue := range extraEnvironment {
		modifiedEnvironment[environmentKey] = environmentValue
	}
	return modifiedEnvironment
}

func formatEnvironmentAssignments(environment map[string]string) []string {
	environmentKeys := make([]string, 0, len(environment))
	for environmentKey := range environment {
		environmentKeys = append(environmentKeys, environmentKey)
	}
	sort.Strings(environmentKeys)

	assignments := make([]string, 0, len(environmentKeys))
	for _, environmentKey := range environmentKeys {
		assignments = append(assignments, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environment[environmentKey]))
	}
	return assignments
}

func resolveEnvironmentProvider(provider EnvironmentProvider) EnvironmentProvider {
	if provider == nil {
		return os.Environ
	}
	return provider
}
