package decision

import (
	"github.com/sirupsen/logrus"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

// OverrideFunc reads the FailConformityPipeline parameter from the template.
// It is only called when the environment allows the template to decide.
type OverrideFunc func() (models.Override, error)

// ShouldFail decides whether offending findings fail the pipeline.
//
// FAIL_PIPELINE=disabled always wins. Otherwise the pipeline fails unless
// FAIL_PIPELINE_CFN=enabled and the template sets FailConformityPipeline to
// "disabled".
func ShouldFail(cfg *models.Configuration, override OverrideFunc) (bool, error) {
	if cfg.PipelineFailureDisabled() {
		logrus.Info(`The "FAIL_PIPELINE" environment variable is set to "disabled". The pipeline will not fail even if the template is deemed insecure.`)
		return false, nil
	}

	if !cfg.TemplateOverrideEnabled() {
		return true, nil
	}

	logrus.Info(`The "FAIL_PIPELINE_CFN" environment variable is set to "enabled". The template will be checked to see if the pipeline should fail.`)
	value, err := override()
	if err != nil {
		return false, err
	}
	return value != models.OverrideDisabled, nil
}
