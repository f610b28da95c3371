package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// BoardClient handles API calls to the devsecboard server.
type BoardClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBoardClient creates a new client for the given base URL.
func NewBoardClient(baseURL string) *BoardClient {
	return &BoardClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (%d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// doJSON sends a request with an optional JSON body and decodes a JSON response into T.
func doJSON[T any](ctx context.Context, c *BoardClient, method, path string, body any) (T, error) {
	var result T

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return result, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Accept", "application/json")
	if body != nil {
		httpReq.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, newAPIError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

func newAPIError(status int, body []byte) *APIError {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error, Details: errResp.Details}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}

// ListPipelines sends GET /api/pipelines.
func (c *BoardClient) ListPipelines(ctx context.Context) ([]store.PipelineRun, error) {
	return doJSON[[]store.PipelineRun](ctx, c, http.MethodGet, "/api/pipelines", nil)
}

// CurrentPipeline sends GET /api/pipelines/current.
func (c *BoardClient) CurrentPipeline(ctx context.Context) (*store.PipelineRun, error) {
	return doJSON[*store.PipelineRun](ctx, c, http.MethodGet, "/api/pipelines/current", nil)
}

// GetPipeline sends GET /api/pipelines/{id}.
func (c *BoardClient) GetPipeline(ctx context.Context, id int64) (*store.PipelineRun, error) {
	return doJSON[*store.PipelineRun](ctx, c, http.MethodGet, idPath("/api/pipelines/%s", id), nil)
}

// StartPipeline sends POST /api/pipelines/start.
func (c *BoardClient) StartPipeline(ctx context.Context, req api.StartPipelineRequest) (*store.PipelineRun, error) {
	return doJSON[*store.PipelineRun](ctx, c, http.MethodPost, "/api/pipelines/start", req)
}

// UpdatePipeline sends PATCH /api/pipelines/{id}.
func (c *BoardClient) UpdatePipeline(ctx context.Context, id int64, req api.UpdatePipelineRequest) (*store.PipelineRun, error) {
	return doJSON[*store.PipelineRun](ctx, c, http.MethodPatch, idPath("/api/pipelines/%s", id), req)
}

// ListStages sends GET /api/pipelines/{pipelineId}/stages.
func (c *BoardClient) ListStages(ctx context.Context, pipelineID int64) ([]store.PipelineStage, error) {
	return doJSON[[]store.PipelineStage](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/stages", pipelineID), nil)
}

// ListSecurityIssues sends GET /api/security/issues with the non-empty filter fields as query parameters.
func (c *BoardClient) ListSecurityIssues(ctx context.Context, filter store.SecurityIssueFilter) ([]store.SecurityIssue, error) {
	q := url.Values{}
	if filter.Severity != "" {
		q.Set("severity", string(filter.Severity))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	path := "/api/security/issues"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return doJSON[[]store.SecurityIssue](ctx, c, http.MethodGet, path, nil)
}

// ListPipelineSecurityIssues sends GET /api/pipelines/{pipelineId}/security/issues.
func (c *BoardClient) ListPipelineSecurityIssues(ctx context.Context, pipelineID int64) ([]store.SecurityIssue, error) {
	return doJSON[[]store.SecurityIssue](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/security/issues", pipelineID), nil)
}

// UpdateSecurityIssue sends PATCH /api/security/issues/{id}.
func (c *BoardClient) UpdateSecurityIssue(ctx context.Context, id int64, req api.UpdateSecurityIssueRequest) (*store.SecurityIssue, error) {
	return doJSON[*store.SecurityIssue](ctx, c, http.MethodPatch, idPath("/api/security/issues/%s", id), req)
}

// LatestCodeMetrics sends GET /api/code/metrics.
func (c *BoardClient) LatestCodeMetrics(ctx context.Context) (*store.CodeMetrics, error) {
	return doJSON[*store.CodeMetrics](ctx, c, http.MethodGet, "/api/code/metrics", nil)
}

// PipelineCodeMetrics sends GET /api/pipelines/{pipelineId}/code/metrics.
func (c *BoardClient) PipelineCodeMetrics(ctx context.Context, pipelineID int64) (*store.CodeMetrics, error) {
	return doJSON[*store.CodeMetrics](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/code/metrics", pipelineID), nil)
}

// ListTestResults sends GET /api/pipelines/{pipelineId}/tests.
func (c *BoardClient) ListTestResults(ctx context.Context, pipelineID int64) ([]store.TestResults, error) {
	return doJSON[[]store.TestResults](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/tests", pipelineID), nil)
}

// ListDeployments sends GET /api/deployments.
func (c *BoardClient) ListDeployments(ctx context.Context) ([]store.Deployment, error) {
	return doJSON[[]store.Deployment](ctx, c, http.MethodGet, "/api/deployments", nil)
}

// ListPipelineDeployments sends GET /api/pipelines/{pipelineId}/deployments.
func (c *BoardClient) ListPipelineDeployments(ctx context.Context, pipelineID int64) ([]store.Deployment, error) {
	return doJSON[[]store.Deployment](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/deployments", pipelineID), nil)
}

// UpdateDeployment sends PATCH /api/deployments/{id}.
func (c *BoardClient) UpdateDeployment(ctx context.Context, id int64, req api.UpdateDeploymentRequest) (*store.Deployment, error) {
	return doJSON[*store.Deployment](ctx, c, http.MethodPatch, idPath("/api/deployments/%s", id), req)
}

// ListComplianceChecks sends GET /api/pipelines/{pipelineId}/compliance.
func (c *BoardClient) ListComplianceChecks(ctx context.Context, pipelineID int64) ([]store.ComplianceCheck, error) {
	return doJSON[[]store.ComplianceCheck](ctx, c, http.MethodGet, idPath("/api/pipelines/%s/compliance", pipelineID), nil)
}

// DashboardMetrics sends GET /api/dashboard/metrics.
func (c *BoardClient) DashboardMetrics(ctx context.Context) (*store.DashboardMetrics, error) {
	return doJSON[*store.DashboardMetrics](ctx, c, http.MethodGet, "/api/dashboard/metrics", nil)
}

// EventsURL returns the WebSocket URL of the change feed, optionally scoped to one pipeline.
func (c *BoardClient) EventsURL(pipelineID int64) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/events"
	if pipelineID > 0 {
		u.RawQuery = url.Values{"pipelineId": {strconv.FormatInt(pipelineID, 10)}}.Encode()
	}
	return u.String(), nil
}
