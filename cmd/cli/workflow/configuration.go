package workflow

// CommandConfiguration captures configuration values for workflow.
type CommandConfiguration struct {
	ContinueOnFailure bool `mapstructure:"continue_on_failure"`
	RaiseErrors       bool `mapstructure:"raise_errors"`
}

// DefaultCommandConfiguration provides default workflow command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ContinueOnFailure: false,
		RaiseErrors:       false,
	}
}

// DefaultConfigurationValues returns the workflow defaults keyed for Viper under configurationKey.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + ".continue_on_failure": defaults.ContinueOnFailure,
		configurationKey + ".raise_errors":        defaults.RaiseErrors,
	}
}
