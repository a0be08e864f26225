package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	prettytable "github.com/tatsushid/go-prettytable"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/risk"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/util"
)

// Exit codes of the scanner.
const (
	ExitPass = 0
	ExitFail = 1
)

// Render returns the offending findings, exactly as Cloud Conformity sent
// them, as indented JSON with sorted keys.
func Render(findings []models.Finding) (string, error) {
	raw := lo.Map(findings, func(f models.Finding, _ int) map[string]interface{} {
		return f.Raw
	})
	return util.PrettyPrint(raw)
}

// WriteArtifact writes the offending findings to path, replacing any previous
// file. Nothing is written when there are no findings.
//
// Every literal \" sequence is removed from the output, so strings holding
// quotes lose them rather than being unescaped.
func WriteArtifact(fs afero.Fs, path string, findings []models.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	output, err := Render(findings)
	if err != nil {
		return fmt.Errorf("while encoding findings: %w", err)
	}
	output = strings.ReplaceAll(output, `\"`, "")
	if err := afero.WriteFile(fs, path, []byte(output), 0644); err != nil {
		return fmt.Errorf("while writing %s: %w", path, err)
	}
	logrus.Infof("Offending entries saved at %s", path)
	return nil
}

// Table prints the offending findings as a table.
func Table(w io.Writer, findings []models.Finding) error {
	table, err := prettytable.NewTable(
		prettytable.Column{Header: "Rule"},
		prettytable.Column{Header: "Risk"},
		prettytable.Column{Header: "Status"},
		prettytable.Column{Header: "Resource"},
		prettytable.Column{Header: "Message"},
	)
	if err != nil {
		return err
	}
	table.Separator = " | "
	for _, f := range findings {
		rule := f.RuleID
		if rule == "" {
			rule = f.ID
		}
		err = table.AddRow(rule, f.Attributes.RiskLevel, f.Attributes.Status, f.Attributes.Resource, f.Attributes.Message)
		if err != nil {
			return err
		}
	}
	_, err = w.Write(table.Bytes())
	return err
}

// Summary describes how many offending findings there are per risk level,
// most severe first.
func Summary(findings []models.Finding) string {
	counts := risk.Summarize(findings)
	parts := []string{}
	levels := models.RiskLevels()
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		if count, ok := counts[level]; ok {
			parts = append(parts, fmt.Sprintf("%s: %d", level, count))
		}
	}
	return strings.Join(parts, ", ")
}

// Decide turns the offending findings and the fail verdict into a Decision.
func Decide(offending []models.Finding, failPipeline bool) models.Decision {
	decision := models.Decision{Offending: offending, FailPipeline: failPipeline, ExitCode: ExitPass}
	if len(offending) > 0 && failPipeline {
		decision.ExitCode = ExitFail
	}
	return decision
}

// Log prints the outcome of the decision.
func Log(decision models.Decision) {
	count := len(decision.Offending)
	switch {
	case count == 0:
		logrus.Info("No offending entries found")
	case decision.FailPipeline:
		logrus.Errorf("%d offending entries found", count)
	default:
		logrus.Infof("\nPipeline failure has been disabled so the script will exit with a 0 code.\n%d offending entries found.", count)
	}
}
