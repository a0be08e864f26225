package conformity

import (
	"context"
	"fmt"

	"github.com/imroc/req/v3"
	"github.com/sirupsen/logrus"

	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/models"
	"github.com/fairwindsops/insights-plugins/plugins/cfn-scan/pkg/util"
)

// ScanPath is the template scanner endpoint, relative to the regional API host.
const ScanPath = "/v1/iac-scanning/scan"

// ContentType is the media type of scan requests.
const ContentType = "application/vnd.api+json"

// TemplateType tags the scanned contents as a CloudFormation template.
const TemplateType = "cloudformation-template"

// Client submits templates to Cloud Conformity.
type Client interface {
	Scan(ctx context.Context, contents string) (*models.ScanResult, error)
}

// NewClient returns a Client for the region and API key in cfg. Requests are
// never retried.
func NewClient(cfg *models.Configuration) Client {
	commonHeaders := map[string]string{
		"Authorization": "ApiKey " + cfg.APIKey,
	}
	client := req.C().
		SetBaseURL(cfg.ScanEndpoint()).
		SetCommonHeaders(commonHeaders).
		SetCommonRetryCount(0)
	logrus.Debugf("scanning with API key %s against %s", util.MaskSecret(cfg.APIKey), cfg.ScanEndpoint())

	if cfg.Options.DevMode {
		logrus.Info("running HTTP Client in development mode")
		client.DevMode()
	}

	return HTTPClient{apiKey: cfg.APIKey, profileID: cfg.ProfileID, client: client}
}

// HTTPClient talks to the Cloud Conformity API over HTTPS.
type HTTPClient struct {
	apiKey, profileID string
	client            *req.Client
}

// ScanAttributes fields are in alphabetical order so the body is sent with sorted keys.
type ScanAttributes struct {
	Contents  string `json:"contents"`
	ProfileID string `json:"profileId"`
	Type      string `json:"type"`
}

type ScanData struct {
	Attributes ScanAttributes `json:"attributes"`
}

// ScanRequest is the body of a template scan request.
type ScanRequest struct {
	Data ScanData `json:"data"`
}

// NewScanRequest builds the request body for a template scan.
func NewScanRequest(contents, profileID string) ScanRequest {
	return ScanRequest{Data: ScanData{Attributes: ScanAttributes{
		Contents:  contents,
		ProfileID: profileID,
		Type:      TemplateType,
	}}}
}

// Scan sends the template contents to the scanner and interprets the response.
func (c HTTPClient) Scan(ctx context.Context, contents string) (*models.ScanResult, error) {
	body, err := util.PrettyPrint(NewScanRequest(contents, c.profileID))
	if err != nil {
		return nil, fmt.Errorf("while encoding scan request: %w", err)
	}
	logrus.Debugf("Sending the following request:\n%s", util.RemoveSecret(body, c.apiKey))

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", ContentType).
		SetBodyBytes([]byte(body)).
		Post(ScanPath)
	if err != nil {
		return nil, models.NewScanError(models.ProtocolError, err, "failed to send scan request")
	}
	logrus.Debugf("Received status %d with the following response:\n%s", resp.StatusCode, util.RemoveSecret(resp.String(), c.apiKey))

	return ParseResponse(resp.StatusCode, resp.Bytes())
}
