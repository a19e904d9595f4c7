package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue      = "true"
	toggleFalseCanonicalValue     = "false"
	toggleFlagTypeConstant        = "bool"
	toggleParseErrorTemplate      = "invalid toggle value %q"
	longFlagPrefixConstant        = "--"
	shortFlagPrefixConstant       = "-"
	flagValueSeparatorConstant    = "="
	argumentsTerminatorConstant   = "--"
	shorthandLengthConstant       = 1
	consumedSingleArgumentCount   = 1
	consumedArgumentAndValueCount = 2
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"t":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"f":     false,
	"n":     false,
}

type toggleRegistry struct {
	mutex      sync.RWMutex
	names      map[string]struct{}
	shorthands map[string]struct{}
}

var registeredToggles = &toggleRegistry{
	names:      map[string]struct{}{},
	shorthands: map[string]struct{}{},
}

// AddToggleFlag registers a boolean flag that accepts yes/no style values as well as the bare flag form.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.VarP(newToggleValue(defaultValue, target), name, shorthand, usage)

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
	registeredFlag.Usage = FormatToggleUsage(defaultValue, usage)

	registeredToggles.register(name, shorthand)
}

// NormalizeToggleArguments joins a toggle flag with a following yes/no literal so "--flag no" parses as "--flag=no".
// Arguments after the "--" terminator are returned untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); {
		currentArgument := arguments[argumentIndex]
		if currentArgument == argumentsTerminatorConstant {
			normalizedArguments = append(normalizedArguments, arguments[argumentIndex:]...)
			break
		}

		normalizedArgument, consumedCount := joinToggleValue(currentArgument, arguments[argumentIndex+1:])
		normalizedArguments = append(normalizedArguments, normalizedArgument)
		argumentIndex += consumedCount
	}

	return normalizedArguments
}

func joinToggleValue(currentArgument string, remainingArguments []string) (string, int) {
	if !registeredToggles.matches(currentArgument) {
		return currentArgument, consumedSingleArgumentCount
	}
	if strings.Contains(currentArgument, flagValueSeparatorConstant) || len(remainingArguments) == 0 {
		return currentArgument, consumedSingleArgumentCount
	}

	candidateValue := remainingArguments[0]
	if _, isLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(candidateValue))]; !isLiteral {
		return currentArgument, consumedSingleArgumentCount
	}
	return currentArgument + flagValueSeparatorConstant + candidateValue, consumedArgumentAndValueCount
}

func (registry *toggleRegistry) register(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.names[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleRegistry) matches(argument string) bool {
	flagName, isLong, recognized := splitFlagName(argument)
	if !recognized {
		return false
	}

	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	if isLong {
		_, exists := registry.names[flagName]
		return exists
	}
	_, exists := registry.shorthands[flagName]
	return exists
}

func splitFlagName(argument string) (string, bool, bool) {
	isLong := strings.HasPrefix(argument, longFlagPrefixConstant)
	var trimmedArgument string
	switch {
	case isLong:
		trimmedArgument = strings.TrimPrefix(argument, longFlagPrefixConstant)
	case strings.HasPrefix(argument, shortFlagPrefixConstant):
		trimmedArgument = strings.TrimPrefix(argument, shortFlagPrefixConstant)
	default:
		return "", false, false
	}

	flagName, _, _ := strings.Cut(trimmedArgument, flagValueSeparatorConstant)
	if len(flagName) == 0 {
		return "", false, false
	}
	if !isLong && len(flagName) != shorthandLengthConstant {
		return "", false, false
	}
	return flagName, isLong, true
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{currentValue: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeConstant
}

// ParseToggleValue interprets yes/no, on/off, true/false, and 1/0 literals case-insensitively. Empty input is true.
func ParseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	if parsedValue, isLiteral := toggleLiterals[normalizedValue]; isLiteral {
		return parsedValue, nil
	}
	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}
