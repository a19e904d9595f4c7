package workflow

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	pathutils "github.com/temirov/shellrun/internal/utils/path"
)

const (
	configurationStepsFieldNameConstant       = "steps"
	configurationWorkflowFieldNameConstant    = "workflow"
	configurationDecodeTagConstant            = "mapstructure"
	defaultStepNameTemplateConstant           = "step-%d"
	configurationLoadErrorTemplateConstant    = "failed to load workflow configuration: %w"
	configurationParseErrorTemplateConstant   = "failed to parse workflow configuration: %w"
	configurationDecodeErrorTemplateConstant  = "failed to decode workflow configuration: %w"
	configurationCommandMissingTemplate       = "workflow step %s missing command"
	configurationDuplicateStepTemplate        = "workflow configuration defines duplicate step name %s"
	configurationPathRequiredMessageConstant  = "workflow configuration path must be provided"
	configurationEmptyStepsMessageConstant    = "workflow configuration must define at least one step"
	configurationFileSystemMissingMessage     = "workflow configuration loader requires a file system"
	configurationInvalidDocumentMessage       = "workflow configuration must be a mapping with a steps list"
	configurationWorkflowSectionInvalidFormat = "workflow configuration section %q must be a mapping"
)

// ErrConfigurationPathMissing indicates that no workflow file was supplied.
var ErrConfigurationPathMissing = errors.New(configurationPathRequiredMessageConstant)

// Configuration describes the ordered shell steps of a workflow file.
type Configuration struct {
	Steps []StepConfiguration `mapstructure:"steps"`
}

// StepConfiguration describes a single shell command of a workflow.
type StepConfiguration struct {
	Name             string            `mapstructure:"name"`
	Command          string            `mapstructure:"command"`
	Environment      map[string]string `mapstructure:"environment"`
	WorkingDirectory string            `mapstructure:"working_directory"`
	RaiseErrors      *bool             `mapstructure:"raise_errors"`
}

// ConfigurationLoader reads workflow files from a file system.
type ConfigurationLoader struct {
	fileSystem        afero.Fs
	directoryResolver *pathutils.WorkingDirectoryResolver
}

// NewConfigurationLoader constructs a loader reading through fileSystem.
func NewConfigurationLoader(fileSystem afero.Fs, directoryResolver *pathutils.WorkingDirectoryResolver) *ConfigurationLoader {
	if directoryResolver == nil {
		directoryResolver = pathutils.NewWorkingDirectoryResolver()
	}
	return &ConfigurationLoader{fileSystem: fileSystem, directoryResolver: directoryResolver}
}

// LoadConfiguration reads, decodes, and validates the workflow at filePath.
// The steps may sit at the document root or under a "workflow" mapping. Scalar environment values such as numbers
// and booleans are converted to strings, and relative working directories are anchored to the workflow file's directory.
func (loader *ConfigurationLoader) LoadConfiguration(filePath string) (Configuration, error) {
	if loader == nil || loader.fileSystem == nil {
		return Configuration{}, errors.New(configurationFileSystemMissingMessage)
	}

	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, ErrConfigurationPathMissing
	}

	contentBytes, readError := afero.ReadFile(loader.fileSystem, trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	var document map[string]any
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	stepsDocument, locateError := locateStepsDocument(document)
	if locateError != nil {
		return Configuration{}, locateError
	}

	configuration, decodeError := decodeConfiguration(stepsDocument)
	if decodeError != nil {
		return Configuration{}, decodeError
	}

	if validationError := loader.normalizeSteps(&configuration, filepath.Dir(trimmedPath)); validationError != nil {
		return Configuration{}, validationError
	}

	return configuration, nil
}

func locateStepsDocument(document map[string]any) (map[string]any, error) {
	if document == nil {
		return nil, errors.New(configurationInvalidDocumentMessage)
	}
	if _, hasSteps := document[configurationStepsFieldNameConstant]; hasSteps {
		return document, nil
	}

	wrappedDocument, hasWrapper := document[configurationWorkflowFieldNameConstant]
	if !hasWrapper {
		return nil, errors.New(configurationInvalidDocumentMessage)
	}
	workflowSection, isMapping := wrappedDocument.(map[string]any)
	if !isMapping {
		return nil, fmt.Errorf(configurationWorkflowSectionInvalidFormat, configurationWorkflowFieldNameConstant)
	}
	return workflowSection, nil
}

func decodeConfiguration(document map[string]any) (Configuration, error) {
	var configuration Configuration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &configuration,
		TagName:          configurationDecodeTagConstant,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       scalarToStringHook,
	})
	if decoderError != nil {
		return Configuration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(document); decodeError != nil {
		return Configuration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}
	return configuration, nil
}

// scalarToStringHook renders YAML scalars in their literal form, so true stays "true" rather than the weak "1".
func scalarToStringHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if targetType.Kind() != reflect.String || sourceType.Kind() == reflect.String {
		return data, nil
	}
	switch data.(type) {
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(data), nil
	default:
		return data, nil
	}
}

func (loader *ConfigurationLoader) normalizeSteps(configuration *Configuration, baseDirectory string) error {
	if len(configuration.Steps) == 0 {
		return errors.New(configurationEmptyStepsMessageConstant)
	}

	seenStepNames := make(map[string]struct{}, len(configuration.Steps))
	for stepIndex := range configuration.Steps {
		step := &configuration.Steps[stepIndex]

		step.Name = strings.TrimSpace(step.Name)
		if len(step.Name) == 0 {
			step.Name = fmt.Sprintf(defaultStepNameTemplateConstant, stepIndex+1)
		}
		if _, duplicate := seenStepNames[step.Name]; duplicate {
			return fmt.Errorf(configurationDuplicateStepTemplate, strconv.Quote(step.Name))
		}
		seenStepNames[step.Name] = struct{}{}

		if len(strings.TrimSpace(step.Command)) == 0 {
			return fmt.Errorf(configurationCommandMissingTemplate, strconv.Quote(step.Name))
		}

		step.WorkingDirectory = loader.directoryResolver.Resolve(step.WorkingDirectory, baseDirectory)
	}

	return nil
}
