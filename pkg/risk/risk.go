package risk

import (
	"github.com/sirupsen/logrus"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

// Filter returns the findings that did not succeed and whose risk level is at
// or above threshold, in their original order. A risk level Cloud Conformity
// is not known to send is an error.
func Filter(findings []models.Finding, threshold models.RiskLevel) ([]models.Finding, error) {
	offending := make([]models.Finding, 0)
	for _, finding := range findings {
		if finding.IsSuccess() {
			continue
		}
		level, ok := models.LookupRiskLevel(finding.Attributes.RiskLevel)
		if !ok {
			return nil, models.NewScanError(models.ProtocolError, nil,
				"Unknown risk level %q on finding %s", finding.Attributes.RiskLevel, finding.ID)
		}
		if level >= threshold {
			offending = append(offending, finding)
		}
	}
	logrus.Debugf("%d of %d findings are at or above %s", len(offending), len(findings), threshold)
	return offending, nil
}

// Summarize counts findings per risk level. Levels without findings are left out.
func Summarize(findings []models.Finding) map[models.RiskLevel]int {
	counts := map[models.RiskLevel]int{}
	for _, finding := range findings {
		if level, ok := models.LookupRiskLevel(finding.Attributes.RiskLevel); ok {
			counts[level]++
		}
	}
	return counts
}
