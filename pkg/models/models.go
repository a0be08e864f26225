package models

import (
	"fmt"
	"strings"
)

// DefaultOutputFile is where offending findings are written when no other location is configured.
const DefaultOutputFile = "findings.json"

// SupportedRegions are the Cloud Conformity regions that expose the template scanner.
var SupportedRegions = []string{
	"eu-west-1",
	"ap-southeast-2",
	"us-west-2",
}

// Configuration is a struct representing the resolved options for a template scan.
// It is built once at startup and never modified afterwards.
type Configuration struct {
	Region       string    `mapstructure:"region"`
	APIKey       string    `mapstructure:"apiKey"`
	TemplatePath string    `mapstructure:"templatePath"`
	RiskLevel    RiskLevel `mapstructure:"-"`
	ProfileID    string    `mapstructure:"profileId"`

	FailPipeline    string `mapstructure:"failPipeline"`
	FailPipelineCFN string `mapstructure:"failPipelineCfn"`

	Options OptionConfig `mapstructure:",squash"`
}

// OptionConfig holds the options that do not affect the pass/fail decision.
type OptionConfig struct {
	OutputFile  string `mapstructure:"outputFile"`
	JUnitOutput string `mapstructure:"junitOutput"`
	LogLevel    string `mapstructure:"logLevel"`
	DevMode     bool   `mapstructure:"devMode"`
	Endpoint    string `mapstructure:"endpoint"`
}

// PipelineFailureDisabled reports whether FAIL_PIPELINE turns off pipeline failure entirely.
func (c Configuration) PipelineFailureDisabled() bool {
	return strings.EqualFold(strings.TrimSpace(c.FailPipeline), "disabled")
}

// TemplateOverrideEnabled reports whether FAIL_PIPELINE_CFN asks for the template to be consulted.
func (c Configuration) TemplateOverrideEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(c.FailPipelineCFN), "enabled")
}

// ScanEndpoint returns the base URL of the scanning API for the configured region.
func (c Configuration) ScanEndpoint() string {
	if c.Options.Endpoint != "" {
		return strings.TrimSuffix(c.Options.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s-api.cloudconformity.com", c.Region)
}

// Template is a template file read from disk.
type Template struct {
	Path      string
	Contents  string
	Extension string
}

// Override is the value of the FailConformityPipeline template parameter.
type Override int

const (
	// OverrideUnset means the template does not declare the parameter.
	OverrideUnset Override = iota
	// OverrideDisabled means the template asks for pipeline failure to be suppressed.
	OverrideDisabled
	// OverrideEnabled means the parameter is present with any value other than "disabled".
	OverrideEnabled
)

func (o Override) String() string {
	switch o {
	case OverrideDisabled:
		return "disabled"
	case OverrideEnabled:
		return "enabled"
	default:
		return "unset"
	}
}

// FindingAttributes are the fields of a finding the gate cares about.
type FindingAttributes struct {
	RiskLevel string `json:"risk-level"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Resource  string `json:"resource"`
}

// Finding represents one rule evaluation returned by Cloud Conformity.
type Finding struct {
	ID         string
	Type       string
	RuleID     string
	Attributes FindingAttributes
	// Raw is the finding object exactly as it was decoded, used when writing it back out.
	Raw map[string]interface{}
}

// IsSuccess reports whether the rule passed.
func (f Finding) IsSuccess() bool {
	return f.Attributes.Status == StatusSuccess
}

// GetReadableTitle returns a human-readable title for the finding
func (f Finding) GetReadableTitle() string {
	t := f.RuleID
	if t == "" {
		t = f.ID
	}
	if f.Attributes.Resource != "" {
		t += " (" + f.Attributes.Resource + ")"
	}
	if f.Attributes.Message != "" {
		t += " - " + f.Attributes.Message
	}
	return t
}

// StatusSuccess is the status of a finding whose rule passed.
const StatusSuccess = "SUCCESS"

// ScanResult is the interpreted response of a scan request.
type ScanResult struct {
	Findings []Finding
}

// Decision is the outcome of a scan.
type Decision struct {
	Offending    []Finding
	FailPipeline bool
	ExitCode     int
}
