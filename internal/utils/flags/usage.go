// Package flags provides Cobra flag helpers shared by the shellrun commands.
package flags

import (
	"fmt"
	"strings"
)

const (
	placeholderPrefixConstant       = "<"
	placeholderSuffixConstant       = ">"
	placeholderSeparatorConstant    = "|"
	usagePlaceholderOnlyTemplate    = "`%s`"
	usagePlaceholderAndTextTemplate = "`%s` %s"
	toggleTruePlaceholderConstant   = "<YES|no>"
	toggleFalsePlaceholderConstant  = "<yes|NO>"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	return formatUsage(buildChoicePlaceholder(defaultChoice, choices), description)
}

// FormatToggleUsage builds the usage string of a yes/no toggle, capitalizing its default.
func FormatToggleUsage(defaultValue bool, description string) string {
	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	return formatUsage(placeholder, description)
}

func formatUsage(placeholder string, description string) string {
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(usagePlaceholderOnlyTemplate, placeholder)
	}
	return fmt.Sprintf(usagePlaceholderAndTextTemplate, placeholder, trimmedDescription)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayedChoices := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, seen := seenChoices[normalizedChoice]; seen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayedChoices = append(displayedChoices, trimmedChoice)
	}

	return placeholderPrefixConstant + strings.Join(displayedChoices, placeholderSeparatorConstant) + placeholderSuffixConstant
}
