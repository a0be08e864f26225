package conformity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/util"
)

// DenyMessage is appended when the API refuses the request outright.
const DenyMessage = "Please ensure you've set the correct Conformity region and that your API key is correct"

type scanResponse struct {
	Message string          `json:"Message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// ParseResponse interprets the body of a scan response. A denial, an error
// envelope, or a body that is neither errors nor data is a ProtocolError.
func ParseResponse(statusCode int, body []byte) (*models.ScanResult, error) {
	var resp scanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, models.NewScanError(models.ProtocolError, err, "unexpected response from Conformity (status %d)", statusCode)
	}

	if strings.Contains(resp.Message, "deny") {
		return nil, models.NewScanError(models.ProtocolError, nil, "%s. %s", resp.Message, DenyMessage)
	}

	apiErrors, err := decodeErrors(resp.Errors)
	if err != nil {
		return nil, models.NewScanError(models.ProtocolError, err, "could not decode errors returned by Conformity (status %d)", statusCode)
	}
	hasErrors := len(apiErrors) > 0
	hasData := isPresent(resp.Data)
	if !util.ExactlyOneOf(hasErrors, hasData) {
		return nil, models.NewScanError(models.ProtocolError, nil,
			"ambiguous response from Conformity (status %d): expected exactly one of \"errors\" or \"data\"", statusCode)
	}
	if hasErrors {
		var allErrs *multierror.Error
		for _, apiErr := range apiErrors {
			allErrs = multierror.Append(allErrs, apiErr)
		}
		return nil, models.NewScanError(models.ProtocolError, allErrs, "Conformity returned %d error(s) (status %d)", len(apiErrors), statusCode)
	}

	findings, err := decodeFindings(resp.Data)
	if err != nil {
		return nil, models.NewScanError(models.ProtocolError, err, "could not decode findings returned by Conformity")
	}
	return &models.ScanResult{Findings: findings}, nil
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// apiError is one entry of a JSON:API error envelope.
type apiError struct {
	Status interface{} `json:"status"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
	raw    string
}

func (e apiError) Error() string {
	switch {
	case e.Detail != "" && e.Title != "":
		return e.Title + ": " + e.Detail
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	}
	return e.raw
}

func decodeErrors(raw json.RawMessage) ([]apiError, error) {
	if !isPresent(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// a single error object instead of a list
		items = []json.RawMessage{raw}
	}
	apiErrors := make([]apiError, 0, len(items))
	for _, item := range items {
		var apiErr apiError
		if err := json.Unmarshal(item, &apiErr); err != nil {
			var s string
			if json.Unmarshal(item, &s) != nil {
				return nil, err
			}
			apiErr.Detail = s
		}
		apiErr.raw = string(item)
		apiErrors = append(apiErrors, apiErr)
	}
	return apiErrors, nil
}

func decodeFindings(raw json.RawMessage) ([]models.Finding, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber() // keep numbers exactly as received when writing them back out
	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("expected a list of findings: %w", err)
	}
	findings := make([]models.Finding, 0, len(items))
	for i, item := range items {
		finding, err := newFinding(item)
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

func newFinding(item map[string]interface{}) (models.Finding, error) {
	attributes, ok := item["attributes"].(map[string]interface{})
	if !ok {
		return models.Finding{}, errors.New("missing attributes")
	}
	finding := models.Finding{Raw: item}
	finding.ID, _ = item["id"].(string)
	finding.Type, _ = item["type"].(string)
	finding.Attributes.RiskLevel, _ = attributes["risk-level"].(string)
	finding.Attributes.Status, _ = attributes["status"].(string)
	finding.Attributes.Message, _ = attributes["message"].(string)
	finding.Attributes.Resource, _ = attributes["resource"].(string)
	finding.RuleID = ruleID(item)
	return finding, nil
}

// ruleID reads relationships.rule.data.id
func ruleID(item map[string]interface{}) string {
	relationships, _ := item["relationships"].(map[string]interface{})
	rule, _ := relationships["rule"].(map[string]interface{})
	data, _ := rule["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	return id
}
