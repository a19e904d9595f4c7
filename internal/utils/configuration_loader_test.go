package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellrun/internal/utils"
)

const (
	testEnvironmentPrefixConstant                     = "SHELLRUN"
	testConfigurationNameConstant                     = "config"
	testConfigurationTypeConstant                     = "yaml"
	testConfigFileNameConstant                        = "config.yaml"
	testUserConfigurationDirectoryNameConstant        = "shellrun"
	testXDGConfigHomeDirectoryNameConstant            = "config"
	testBashInterpreterConstant                       = "/bin/bash"
	testPortableInterpreterConstant                   = "/bin/sh"
	testRaiseErrorsEnvironmentVariableConstant        = "SHELLRUN_RUN_RAISE_ERRORS"
	testStrictModeEnvironmentVariableConstant         = "SHELLRUN_SHELL_STRICT_MODE"
	configurationLoaderSubtestNameTemplateConstant    = "%d_%s"
	testCaseSearchPathWorkingDirectoryMessageConstant = "searches working directory"
	testCaseSearchPathHomeDirectoryMessageConstant    = "searches home configuration directory"
	testEmbeddedConfigurationConstant                 = "shell:\n  interpreter: /bin/bash\n  arguments:\n    - -c\n  strict_mode: true\nrun:\n  raise_errors: false\n  environment: []\n"
	testPortableShellConfigurationConstant            = "shell:\n  interpreter: /bin/sh\n  strict_mode: false\nrun:\n  environment:\n    - GREETING=hello\n    - STAGE=ci\n"
	testRaiseErrorsDisabledConfigurationConstant      = "run:\n  raise_errors: false\n"
)

type configurationFixture struct {
	Shell shellConfigurationFixture `mapstructure:"shell"`
	Run   runConfigurationFixture   `mapstructure:"run"`
}

type shellConfigurationFixture struct {
	Interpreter string   `mapstructure:"interpreter"`
	Arguments   []string `mapstructure:"arguments"`
	StrictMode  bool     `mapstructure:"strict_mode"`
}

type runConfigurationFixture struct {
	RaiseErrors bool     `mapstructure:"raise_errors"`
	Environment []string `mapstructure:"environment"`
}

func configurationDefaultValues() map[string]any {
	return map[string]any{
		"shell.interpreter": testPortableInterpreterConstant,
		"shell.arguments":   []string{"-c"},
		"shell.strict_mode": false,
		"run.raise_errors":  false,
		"run.environment":   []string{},
	}
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedContent     string
		fileContent         string
		environmentValues   map[string]string
		expectedInterpreter string
		expectedStrictMode  bool
		expectedRaiseErrors bool
		expectedEnvironment []string
	}{
		{
			name:                "defaults_without_embedded_configuration",
			expectedInterpreter: testPortableInterpreterConstant,
			expectedStrictMode:  false,
		},
		{
			name:                "embedded_configuration_overrides_defaults",
			embeddedContent:     testEmbeddedConfigurationConstant,
			expectedInterpreter: testBashInterpreterConstant,
			expectedStrictMode:  true,
		},
		{
			name:                "file_overrides_embedded_configuration",
			embeddedContent:     testEmbeddedConfigurationConstant,
			fileContent:         testPortableShellConfigurationConstant,
			expectedInterpreter: testPortableInterpreterConstant,
			expectedStrictMode:  false,
			expectedEnvironment: []string{"GREETING=hello", "STAGE=ci"},
		},
		{
			name:                "environment_overrides_file",
			embeddedContent:     testEmbeddedConfigurationConstant,
			fileContent:         testRaiseErrorsDisabledConfigurationConstant,
			environmentValues:   map[string]string{testRaiseErrorsEnvironmentVariableConstant: "true"},
			expectedInterpreter: testBashInterpreterConstant,
			expectedStrictMode:  true,
			expectedRaiseErrors: true,
		},
		{
			name:                "environment_overrides_embedded_configuration",
			embeddedContent:     testEmbeddedConfigurationConstant,
			environmentValues:   map[string]string{testStrictModeEnvironmentVariableConstant: "false"},
			expectedInterpreter: testBashInterpreterConstant,
			expectedStrictMode:  false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}

			for environmentVariableName, environmentValue := range testCase.environmentValues {
				testInstance.Setenv(environmentVariableName, environmentValue)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})
			configurationLoader.SetEmbeddedConfiguration([]byte(testCase.embeddedContent), testConfigurationTypeConstant)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, configurationDefaultValues(), &loadedConfiguration)
			require.NoError(testInstance, loadError)

			require.Equal(testInstance, testCase.expectedInterpreter, loadedConfiguration.Shell.Interpreter)
			require.Equal(testInstance, []string{"-c"}, loadedConfiguration.Shell.Arguments)
			require.Equal(testInstance, testCase.expectedStrictMode, loadedConfiguration.Shell.StrictMode)
			require.Equal(testInstance, testCase.expectedRaiseErrors, loadedConfiguration.Run.RaiseErrors)
			if len(testCase.expectedEnvironment) == 0 {
				require.Empty(testInstance, loadedConfiguration.Run.Environment)
			} else {
				require.Equal(testInstance, testCase.expectedEnvironment, loadedConfiguration.Run.Environment)
			}
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name                         string
		configurationDirectorySelect func(workingDirectoryPath string, userConfigurationDirectoryPath string) string
	}{
		{
			name: testCaseSearchPathWorkingDirectoryMessageConstant,
			configurationDirectorySelect: func(workingDirectoryPath string, _ string) string {
				return workingDirectoryPath
			},
		},
		{
			name: testCaseSearchPathHomeDirectoryMessageConstant,
			configurationDirectorySelect: func(_ string, userConfigurationDirectoryPath string) string {
				return userConfigurationDirectoryPath
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectoryPath := testInstance.TempDir()
			homeDirectoryPath := testInstance.TempDir()
			testInstance.Setenv("HOME", homeDirectoryPath)
			testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectoryPath, testXDGConfigHomeDirectoryNameConstant))

			userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
			require.NoError(testInstance, userConfigurationDirectoryError)
			userConfigurationDirectoryPath := filepath.Join(userConfigurationBaseDirectoryPath, testUserConfigurationDirectoryNameConstant)

			selectedConfigurationDirectoryPath := testCase.configurationDirectorySelect(workingDirectoryPath, userConfigurationDirectoryPath)
			require.NoError(testInstance, os.MkdirAll(selectedConfigurationDirectoryPath, 0o755))

			configurationFilePath := filepath.Join(selectedConfigurationDirectoryPath, testConfigFileNameConstant)
			require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testPortableShellConfigurationConstant), 0o600))

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{workingDirectoryPath, userConfigurationDirectoryPath},
			)
			configurationLoader.SetEmbeddedConfiguration([]byte(testEmbeddedConfigurationConstant), testConfigurationTypeConstant)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", configurationDefaultValues(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testPortableInterpreterConstant, loadedConfiguration.Shell.Interpreter)
			require.Equal(testInstance, []string{"GREETING=hello", "STAGE=ci"}, loadedConfiguration.Run.Environment)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestDefaultConfigurationSearchPaths(testInstance *testing.T) {
	homeDirectoryPath := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectoryPath)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectoryPath, testXDGConfigHomeDirectoryNameConstant))

	userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
	require.NoError(testInstance, userConfigurationDirectoryError)

	searchPaths := utils.DefaultConfigurationSearchPaths(testUserConfigurationDirectoryNameConstant)

	require.Equal(testInstance, []string{".", filepath.Join(userConfigurationBaseDirectoryPath, testUserConfigurationDirectoryNameConstant)}, searchPaths)
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), testConfigFileNameConstant), nil, &loadedConfiguration)

	require.Error(testInstance, loadError)
}
