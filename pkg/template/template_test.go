package template

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

func TestLoadValidFile(t *testing.T) {
	tmpl, err := Load(afero.NewOsFs(), "testdata/insecure-s3-bucket.json")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Contents, "Resources")
	assert.Equal(t, "json", tmpl.Extension)
	assert.Equal(t, "testdata/insecure-s3-bucket.json", tmpl.Path)
}

func TestLoadInvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "/tmp/x.yaml")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.FileError))
	assert.Contains(t, err.Error(), "Template file does not exist")

	require.NoError(t, fs.MkdirAll("/tmp/templates.yaml", 0755))
	_, err = Load(fs, "/tmp/templates.yaml")
	assert.True(t, models.IsKind(err, models.FileError))
}

func TestLoadExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("dir", 0755))
	for path, want := range map[string]string{
		"stack.JSON":     "json",
		"stack.Yml":      "yml",
		"dir/stack.yaml": "yaml",
		"stack.template": "template",
		"stack":          "",
	} {
		require.NoError(t, afero.WriteFile(fs, path, []byte("{}"), 0644))
		tmpl, err := Load(fs, path)
		require.NoError(t, err)
		assert.Equal(t, want, tmpl.Extension, path)
	}
}

func TestExtractOverrideFromTestdata(t *testing.T) {
	tests := []struct {
		file string
		want models.Override
	}{
		{"testdata/insecure-s3-bucket.json", models.OverrideUnset},
		{"testdata/insecure-s3-bucket-disable-failure.json", models.OverrideDisabled},
		{"testdata/insecure-s3-bucket-disable-failure.yaml", models.OverrideDisabled},
		{"testdata/insecure-s3-bucket.yml", models.OverrideUnset},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tmpl, err := Load(afero.NewOsFs(), tt.file)
			require.NoError(t, err)
			got, err := ExtractOverride(tmpl)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOverride(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		contents  string
		want      models.Override
	}{
		{"json-disabled-mixed-case", "json", `{"Parameters": {"FailConformityPipeline": "DiSaBlEd"}}`, models.OverrideDisabled},
		{"json-other-value", "json", `{"Parameters": {"FailConformityPipeline": "x"}}`, models.OverrideEnabled},
		{"json-non-string-value", "json", `{"Parameters": {"FailConformityPipeline": false}}`, models.OverrideEnabled},
		{"json-declaration-without-default", "json", `{"Parameters": {"FailConformityPipeline": {"Type": "String"}}}`, models.OverrideEnabled},
		{"json-no-parameters", "json", `{"Resources": {}}`, models.OverrideUnset},
		{"json-parameters-not-a-map", "json", `{"Parameters": ["FailConformityPipeline"]}`, models.OverrideUnset},
		{"json-malformed", "json", `{"Parameters": `, models.OverrideUnset},
		{"json-top-level-list", "json", `[1, 2]`, models.OverrideUnset},
		{"json-escaped-slash", "json", `{"Description": "see https:\/\/example.com", "Parameters": {"FailConformityPipeline": "disabled"}}`, models.OverrideDisabled},
		{"json-surrogate-pair", "json", `{"Description": "\ud83d\ude00", "Parameters": {"FailConformityPipeline": "disabled"}}`, models.OverrideDisabled},
		{"json-escaped-value", "json", `{"Parameters": {"FailConformityPipeline": "\u0064isabled"}}`, models.OverrideDisabled},
		{"yaml-disabled", "yaml", "Parameters:\n  FailConformityPipeline: disabled\n", models.OverrideDisabled},
		{"yml-enabled", "yml", "Parameters:\n  FailConformityPipeline: enabled\n", models.OverrideEnabled},
		{"yaml-declaration-default", "yaml", "Parameters:\n  FailConformityPipeline:\n    Type: String\n    Default: disabled\n", models.OverrideDisabled},
		{"yaml-parameters-scalar", "yaml", "Parameters: nope\n", models.OverrideUnset},
		{"yaml-empty", "yaml", "", models.OverrideUnset},
		{"yaml-malformed", "yaml", "Parameters: [\n", models.OverrideUnset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractOverride(&models.Template{Path: "template." + tt.extension, Extension: tt.extension, Contents: tt.contents})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOverrideUnknownExtension(t *testing.T) {
	_, err := ExtractOverride(&models.Template{Path: "stack.template", Extension: "template", Contents: "{}"})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.UnsupportedFormatError))
	assert.Contains(t, err.Error(), "Unknown file extension for template")
}
