package report

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/jstemmer/go-junit-report/formatter"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
)

// SaveJUnitFile saves the offending findings as a JUnit report, one failing
// test case per finding.
func SaveJUnitFile(fs afero.Fs, filename, templatePath string, offending []models.Finding) error {
	cases := lo.Map(offending, func(f models.Finding, _ int) formatter.JUnitTestCase {
		return formatter.JUnitTestCase{
			Classname: templatePath,
			Name:      f.GetReadableTitle(),
			Failure: &formatter.JUnitFailure{
				Message:  f.Attributes.Message,
				Type:     f.Attributes.RiskLevel,
				Contents: fmt.Sprintf("Rule: %s\nRisk level: %s\nStatus: %s\nResource: %s", f.RuleID, f.Attributes.RiskLevel, f.Attributes.Status, f.Attributes.Resource),
			},
		}
	})

	testSuites := formatter.JUnitTestSuites{
		Suites: []formatter.JUnitTestSuite{
			{
				Name:      templatePath,
				Tests:     len(cases),
				Failures:  len(cases),
				TestCases: cases,
			},
		},
	}

	err := fs.MkdirAll(filepath.Dir(filename), 0755)
	if err != nil {
		return fmt.Errorf("could not create dir: %v", err)
	}

	xmlBytes, err := xml.MarshalIndent(testSuites, "", "\t")
	if err != nil {
		return err
	}
	xmlBytes = append([]byte(xml.Header), xmlBytes...)
	err = afero.WriteFile(fs, filename, xmlBytes, 0644)
	if err != nil {
		return fmt.Errorf("could not save file: %v", err)
	}

	logrus.Info("JUnit results file saved at ", filename)

	return nil
}
