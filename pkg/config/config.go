package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

// Environment variables read by the scanner.
const (
	EnvAPIKey          = "CC_API_KEY"
	EnvRegion          = "CC_REGION"
	EnvTemplatePath    = "CFN_TEMPLATE_FILE_LOCATION"
	EnvRiskLevel       = "CC_RISK_LEVEL"
	EnvProfileID       = "CC_PROFILE_ID"
	EnvFailPipeline    = "FAIL_PIPELINE"
	EnvFailPipelineCFN = "FAIL_PIPELINE_CFN"
	EnvOutputFile      = "OUTPUT_FILE"
	EnvJUnitOutput     = "JUNIT_OUTPUT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvDevMode         = "CC_DEV_MODE"
	EnvEndpoint        = "CC_ENDPOINT"
)

var envBindings = map[string]string{
	"apiKey":          EnvAPIKey,
	"region":          EnvRegion,
	"templatePath":    EnvTemplatePath,
	"riskLevel":       EnvRiskLevel,
	"profileId":       EnvProfileID,
	"failPipeline":    EnvFailPipeline,
	"failPipelineCfn": EnvFailPipelineCFN,
	"outputFile":      EnvOutputFile,
	"junitOutput":     EnvJUnitOutput,
	"logLevel":        EnvLogLevel,
	"devMode":         EnvDevMode,
	"endpoint":        EnvEndpoint,
}

// Messages shown when the configuration is rejected.
const (
	MissingVariablesMessage = "Please ensure all environment variables are set"
	InvalidRegionMessage    = `Please ensure "CC_REGION" is set to a region which is supported by Conformity`
	InvalidRiskLevelMessage = "Unknown risk level. Please use one of LOW | MEDIUM | HIGH | VERY_HIGH | EXTREME"
)

// LoadConfig resolves the scan configuration from environment variables and,
// when configFile is not empty, a YAML config file. Environment variables take
// precedence over the file.
func LoadConfig(configFile string) (*models.Configuration, error) {
	v := viper.New()

	v.SetDefault("riskLevel", models.RiskLow.String())
	v.SetDefault("profileId", "")
	v.SetDefault("outputFile", models.DefaultOutputFile)
	v.SetDefault("logLevel", "info")
	v.SetDefault("devMode", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, models.NewScanError(models.ConfigurationError, err, "failed to read config file %s", configFile)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, models.NewScanError(models.ConfigurationError, err, "failed to bind %s", env)
		}
	}

	var cfg models.Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, models.NewScanError(models.ConfigurationError, err, "failed to unmarshal config")
	}
	cfg.Region = strings.ToLower(strings.TrimSpace(cfg.Region))

	level, err := validateConfig(&cfg, v.GetString("riskLevel"))
	if err != nil {
		return nil, err
	}
	cfg.RiskLevel = level

	logrus.Infof(`All environment variables were received. The pipeline will fail if any "%s" level issues are found`, cfg.RiskLevel)
	return &cfg, nil
}

// validateConfig checks the required fields and returns the parsed risk threshold.
func validateConfig(cfg *models.Configuration, riskLevel string) (models.RiskLevel, error) {
	var allErrs *multierror.Error

	missing := lo.Filter([]lo.Tuple2[string, string]{
		lo.T2(EnvRegion, cfg.Region),
		lo.T2(EnvAPIKey, cfg.APIKey),
		lo.T2(EnvTemplatePath, cfg.TemplatePath),
	}, func(item lo.Tuple2[string, string], _ int) bool {
		return strings.TrimSpace(item.B) == ""
	})
	for _, item := range missing {
		allErrs = multierror.Append(allErrs, fmt.Errorf("%s is required", item.A))
	}
	if len(missing) > 0 {
		return 0, models.NewScanError(models.ConfigurationError, allErrs.ErrorOrNil(), MissingVariablesMessage)
	}

	if !lo.Contains(models.SupportedRegions, cfg.Region) {
		allErrs = multierror.Append(allErrs, models.NewScanError(models.ConfigurationError,
			fmt.Errorf("%q is not one of %s", cfg.Region, strings.Join(models.SupportedRegions, ", ")), InvalidRegionMessage))
	}

	level, err := models.ParseRiskLevel(riskLevel)
	if err != nil {
		allErrs = multierror.Append(allErrs, models.NewScanError(models.ConfigurationError, err, InvalidRiskLevelMessage))
	}

	if allErrs.ErrorOrNil() != nil {
		// a single problem keeps its own message; several are reported together
		if len(allErrs.Errors) == 1 {
			return 0, allErrs.Errors[0]
		}
		return 0, models.NewScanError(models.ConfigurationError, allErrs, "invalid configuration")
	}
	return level, nil
}
