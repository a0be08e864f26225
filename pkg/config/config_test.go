package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "abc123")
	t.Setenv(EnvRegion, "us-west-2")
	t.Setenv(EnvTemplatePath, "template.yaml")
	for _, env := range []string{EnvRiskLevel, EnvProfileID, EnvFailPipeline, EnvFailPipelineCFN, EnvOutputFile, EnvJUnitOutput, EnvLogLevel, EnvDevMode, EnvEndpoint} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "template.yaml", cfg.TemplatePath)
	assert.Equal(t, models.RiskLow, cfg.RiskLevel)
	assert.Empty(t, cfg.ProfileID)
	assert.Empty(t, cfg.FailPipeline)
	assert.Empty(t, cfg.FailPipelineCFN)
	assert.Equal(t, "findings.json", cfg.Options.OutputFile)
	assert.Equal(t, "info", cfg.Options.LogLevel)
	assert.False(t, cfg.Options.DevMode)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvRegion, "EU-West-1")
	t.Setenv(EnvRiskLevel, "very_high")
	t.Setenv(EnvProfileID, "profile-1")
	t.Setenv(EnvFailPipeline, "disabled")
	t.Setenv(EnvFailPipelineCFN, "enabled")
	t.Setenv(EnvJUnitOutput, "reports/junit.xml")
	t.Setenv(EnvDevMode, "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, models.RiskVeryHigh, cfg.RiskLevel)
	assert.Equal(t, "profile-1", cfg.ProfileID)
	assert.True(t, cfg.PipelineFailureDisabled())
	assert.True(t, cfg.TemplateOverrideEnabled())
	assert.Equal(t, "reports/junit.xml", cfg.Options.JUnitOutput)
	assert.True(t, cfg.Options.DevMode)
}

func TestMissingEnvVars(t *testing.T) {
	for _, env := range []string{EnvAPIKey, EnvRegion, EnvTemplatePath} {
		t.Run(env, func(t *testing.T) {
			setRequiredEnv(t)
			os.Unsetenv(env)

			cfg, err := LoadConfig("")
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, models.IsKind(err, models.ConfigurationError))
			assert.Contains(t, err.Error(), MissingVariablesMessage)
			assert.Contains(t, err.Error(), env)
		})
	}
}

func TestEmptyEnvVarsCountAsUnset(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvRiskLevel, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, cfg.RiskLevel)

	t.Setenv(EnvAPIKey, "")
	_, err = LoadConfig("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ConfigurationError))
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestInvalidRegion(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvRegion, "x")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ConfigurationError))
	assert.Contains(t, err.Error(), InvalidRegionMessage)
}

func TestInvalidLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvRiskLevel, "x")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ConfigurationError))
	assert.Contains(t, err.Error(), InvalidRiskLevelMessage)
}

func TestInvalidRegionAndLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvRegion, "x")
	t.Setenv(EnvRiskLevel, "x")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ConfigurationError))
	assert.Len(t, models.Flatten(err), 2)
	assert.Contains(t, err.Error(), InvalidRegionMessage)
	assert.Contains(t, err.Error(), InvalidRiskLevelMessage)
}

func TestReadConfigurationFromFile(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv(EnvTemplatePath)
	t.Setenv(EnvRiskLevel, "HIGH")

	configFileContent := `
templatePath: infra/stack.json
riskLevel: LOW
profileId: from-file
outputFile: out/findings.json
`
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(configFileContent), 0644))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)
	assert.Equal(t, "infra/stack.json", cfg.TemplatePath)
	assert.Equal(t, models.RiskHigh, cfg.RiskLevel) // environment wins
	assert.Equal(t, "from-file", cfg.ProfileID)
	assert.Equal(t, "out/findings.json", cfg.Options.OutputFile)
}

func TestMissingConfigFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ConfigurationError))
}
