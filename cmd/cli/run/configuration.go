package run

// CommandConfiguration captures configuration values for the run command.
// Environment entries use the KEY=VALUE form so that variable names keep their case.
type CommandConfiguration struct {
	RaiseErrors      bool     `mapstructure:"raise_errors"`
	Environment      []string `mapstructure:"environment"`
	WorkingDirectory string   `mapstructure:"working_directory"`
}

// DefaultCommandConfiguration provides the run command defaults.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RaiseErrors:      false,
		Environment:      []string{},
		WorkingDirectory: "",
	}
}

// DefaultConfigurationValues returns the run defaults keyed for Viper under configurationKey.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + ".raise_errors":      defaults.RaiseErrors,
		configurationKey + ".environment":       defaults.Environment,
		configurationKey + ".working_directory": defaults.WorkingDirectory,
	}
}
