package ci

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/conformity"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/decision"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/report"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/risk"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/template"
)

// CIScan runs one template scan from start to finish.
type CIScan struct {
	config *models.Configuration
	fs     afero.Fs
	client conformity.Client
	out    io.Writer
}

// NewCIScan returns a CIScan for cfg. A nil fs uses the OS filesystem and a nil
// client talks to Cloud Conformity.
func NewCIScan(cfg *models.Configuration, fs afero.Fs, client conformity.Client) *CIScan {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if client == nil {
		client = conformity.NewClient(cfg)
	}
	return &CIScan{config: cfg, fs: fs, client: client, out: os.Stdout}
}

// SetOutput changes where the findings table is printed.
func (ci *CIScan) SetOutput(w io.Writer) {
	ci.out = w
}

// Run scans the template and decides whether the pipeline should fail. Errors
// are returned, never acted upon; the caller chooses the exit code.
func (ci *CIScan) Run(ctx context.Context) (*models.Decision, error) {
	tmpl, err := template.Load(ci.fs, ci.config.TemplatePath)
	if err != nil {
		return nil, err
	}

	result, err := ci.client.Scan(ctx, tmpl.Contents)
	if err != nil {
		return nil, err
	}

	offending, err := risk.Filter(result.Findings, ci.config.RiskLevel)
	if err != nil {
		return nil, err
	}

	if len(offending) == 0 {
		d := report.Decide(offending, false)
		report.Log(d)
		return &d, nil
	}

	if err := ci.report(tmpl, offending); err != nil {
		return nil, err
	}

	failPipeline, err := decision.ShouldFail(ci.config, func() (models.Override, error) {
		return template.ExtractOverride(tmpl)
	})
	if err != nil {
		return nil, err
	}

	d := report.Decide(offending, failPipeline)
	report.Log(d)
	return &d, nil
}

func (ci *CIScan) report(tmpl *models.Template, offending []models.Finding) error {
	rendered, err := report.Render(offending)
	if err != nil {
		return fmt.Errorf("while rendering offending entries: %w", err)
	}
	logrus.Infof("Offending entries:\n%s", rendered)
	logrus.Infof("Offending entries by risk level: %s", report.Summary(offending))

	if err := report.Table(ci.out, offending); err != nil {
		logrus.Warnf("Could not print offending entries as a table: %v", err)
	}

	outputFile := ci.config.Options.OutputFile
	if outputFile == "" {
		outputFile = models.DefaultOutputFile
	}
	if err := report.WriteArtifact(ci.fs, outputFile, offending); err != nil {
		return err
	}

	if ci.JUnitEnabled() {
		if err := report.SaveJUnitFile(ci.fs, ci.config.Options.JUnitOutput, tmpl.Path, offending); err != nil {
			return fmt.Errorf("could not save jUnit results: %w", err)
		}
	}
	return nil
}

// JUnitEnabled reports whether a JUnit file was requested.
func (ci *CIScan) JUnitEnabled() bool {
	return ci.config.Options.JUnitOutput != ""
}
