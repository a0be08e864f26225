package template

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

// OverrideParameter is the template parameter that can suppress pipeline failure.
const OverrideParameter = "FailConformityPipeline"

var supportedExtensions = []string{"json", "yaml", "yml"}

// Load reads the template at path. The path must point to a regular file.
func Load(fs afero.Fs, path string) (*models.Template, error) {
	info, err := fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, models.NewScanError(models.FileError, nil, "Template file does not exist: %s", path)
	}
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, models.NewScanError(models.FileError, err, "Could not read template file %s", path)
	}
	logrus.Debugf("read %d bytes from %s", len(contents), path)
	return &models.Template{
		Path:      path,
		Contents:  string(contents),
		Extension: extension(path),
	}, nil
}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// document is the only part of a template that is ever looked at.
type document struct {
	Parameters map[string]interface{} `json:"Parameters" yaml:"Parameters"`
}

// ExtractOverride looks up the FailConformityPipeline parameter. Templates that
// cannot be parsed, or whose Parameters section has an unexpected shape, are
// treated as not setting it. Only an unsupported file extension is an error.
func ExtractOverride(t *models.Template) (models.Override, error) {
	var doc document
	var err error
	switch t.Extension {
	case "json":
		err = json.Unmarshal([]byte(t.Contents), &doc)
	case "yaml", "yml":
		err = yaml.Unmarshal([]byte(t.Contents), &doc)
	default:
		return models.OverrideUnset, models.NewScanError(models.UnsupportedFormatError, nil,
			"Unknown file extension for template: %q, expected one of %s", filepath.Ext(t.Path), strings.Join(supportedExtensions, ", "))
	}
	if err != nil {
		logrus.Warnf("Could not parse %s while looking for the %q parameter: %v", t.Path, OverrideParameter, err)
		return models.OverrideUnset, nil
	}

	value, ok := doc.Parameters[OverrideParameter]
	if !ok {
		logrus.Infof(`The "%s" parameter has not been set. The pipeline will fail if the template is deemed insecure.`, OverrideParameter)
		return models.OverrideUnset, nil
	}

	override := overrideFromValue(value)
	if override == models.OverrideDisabled {
		logrus.Infof(`The "%s" parameter has been set to "disabled". The pipeline will not fail even if the template is deemed insecure.`, OverrideParameter)
	} else {
		logrus.Infof(`The "%s" parameter was not set to "disabled". The pipeline will fail if the template is deemed insecure.`, OverrideParameter)
	}
	return override, nil
}

// overrideFromValue accepts either a plain value or a parameter declaration
// whose Default carries the value.
func overrideFromValue(value interface{}) models.Override {
	if declaration, ok := value.(map[string]interface{}); ok {
		if def, ok := declaration["Default"]; ok {
			value = def
		}
	}
	if s, ok := value.(string); ok && strings.EqualFold(strings.TrimSpace(s), "disabled") {
		return models.OverrideDisabled
	}
	return models.OverrideEnabled
}
