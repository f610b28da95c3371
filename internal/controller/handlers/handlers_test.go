package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devsecboard/internal/store"
	"devsecboard/internal/store/memory"
)

// Mock Store backed by a real in-memory store.
// Setting err makes every store call fail; pingErr only affects Ping.
type mockStore struct {
	*memory.Store
	err     error
	pingErr error
}

func newMockStore(t *testing.T, seeded bool) *mockStore {
	t.Helper()
	if !seeded {
		return &mockStore{Store: memory.New()}
	}
	seed, err := memory.LoadSeed("")
	if err != nil {
		t.Fatalf("loading seed: %v", err)
	}
	return &mockStore{Store: memory.New(memory.WithSeed(seed))}
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockStore) ListPipelineRuns(ctx context.Context) ([]store.PipelineRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListPipelineRuns(ctx)
}

func (m *mockStore) GetPipelineRun(ctx context.Context, id int64) (store.PipelineRun, bool, error) {
	if m.err != nil {
		return store.PipelineRun{}, false, m.err
	}
	return m.Store.GetPipelineRun(ctx, id)
}

func (m *mockStore) GetCurrentPipelineRun(ctx context.Context) (store.PipelineRun, bool, error) {
	if m.err != nil {
		return store.PipelineRun{}, false, m.err
	}
	return m.Store.GetCurrentPipelineRun(ctx)
}

func (m *mockStore) CreatePipelineRun(ctx context.Context, run store.PipelineRun) (store.PipelineRun, error) {
	if m.err != nil {
		return store.PipelineRun{}, m.err
	}
	return m.Store.CreatePipelineRun(ctx, run)
}

func (m *mockStore) UpdatePipelineRun(ctx context.Context, id int64, patch store.PipelineRunPatch) (store.PipelineRun, bool, error) {
	if m.err != nil {
		return store.PipelineRun{}, false, m.err
	}
	return m.Store.UpdatePipelineRun(ctx, id, patch)
}

func (m *mockStore) ListPipelineStages(ctx context.Context, pipelineRunID int64) ([]store.PipelineStage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListPipelineStages(ctx, pipelineRunID)
}

func (m *mockStore) CreatePipelineStage(ctx context.Context, stage store.PipelineStage) (store.PipelineStage, error) {
	if m.err != nil {
		return store.PipelineStage{}, m.err
	}
	return m.Store.CreatePipelineStage(ctx, stage)
}

func (m *mockStore) UpdatePipelineStage(ctx context.Context, id int64, patch store.PipelineStagePatch) (store.PipelineStage, bool, error) {
	if m.err != nil {
		return store.PipelineStage{}, false, m.err
	}
	return m.Store.UpdatePipelineStage(ctx, id, patch)
}

func (m *mockStore) ListSecurityIssues(ctx context.Context, filter store.SecurityIssueFilter) ([]store.SecurityIssue, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListSecurityIssues(ctx, filter)
}

func (m *mockStore) ListSecurityIssuesByPipeline(ctx context.Context, pipelineRunID int64) ([]store.SecurityIssue, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListSecurityIssuesByPipeline(ctx, pipelineRunID)
}

func (m *mockStore) CreateSecurityIssue(ctx context.Context, issue store.SecurityIssue) (store.SecurityIssue, error) {
	if m.err != nil {
		return store.SecurityIssue{}, m.err
	}
	return m.Store.CreateSecurityIssue(ctx, issue)
}

func (m *mockStore) UpdateSecurityIssue(ctx context.Context, id int64, patch store.SecurityIssuePatch) (store.SecurityIssue, bool, error) {
	if m.err != nil {
		return store.SecurityIssue{}, false, m.err
	}
	return m.Store.UpdateSecurityIssue(ctx, id, patch)
}

func (m *mockStore) GetLatestCodeMetrics(ctx context.Context) (store.CodeMetrics, bool, error) {
	if m.err != nil {
		return store.CodeMetrics{}, false, m.err
	}
	return m.Store.GetLatestCodeMetrics(ctx)
}

func (m *mockStore) GetCodeMetricsByPipeline(ctx context.Context, pipelineRunID int64) (store.CodeMetrics, bool, error) {
	if m.err != nil {
		return store.CodeMetrics{}, false, m.err
	}
	return m.Store.GetCodeMetricsByPipeline(ctx, pipelineRunID)
}

func (m *mockStore) UpsertCodeMetrics(ctx context.Context, patch store.CodeMetricsPatch) (store.CodeMetrics, error) {
	if m.err != nil {
		return store.CodeMetrics{}, m.err
	}
	return m.Store.UpsertCodeMetrics(ctx, patch)
}

func (m *mockStore) ListTestResults(ctx context.Context, pipelineRunID int64) ([]store.TestResults, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListTestResults(ctx, pipelineRunID)
}

func (m *mockStore) CreateTestResults(ctx context.Context, results store.TestResults) (store.TestResults, error) {
	if m.err != nil {
		return store.TestResults{}, m.err
	}
	return m.Store.CreateTestResults(ctx, results)
}

func (m *mockStore) ListDeployments(ctx context.Context) ([]store.Deployment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListDeployments(ctx)
}

func (m *mockStore) ListDeploymentsByPipeline(ctx context.Context, pipelineRunID int64) ([]store.Deployment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListDeploymentsByPipeline(ctx, pipelineRunID)
}

func (m *mockStore) CreateDeployment(ctx context.Context, d store.Deployment) (store.Deployment, error) {
	if m.err != nil {
		return store.Deployment{}, m.err
	}
	return m.Store.CreateDeployment(ctx, d)
}

func (m *mockStore) UpdateDeployment(ctx context.Context, id int64, patch store.DeploymentPatch) (store.Deployment, bool, error) {
	if m.err != nil {
		return store.Deployment{}, false, m.err
	}
	return m.Store.UpdateDeployment(ctx, id, patch)
}

func (m *mockStore) ListComplianceChecks(ctx context.Context, pipelineRunID int64) ([]store.ComplianceCheck, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Store.ListComplianceChecks(ctx, pipelineRunID)
}

func (m *mockStore) CreateComplianceCheck(ctx context.Context, check store.ComplianceCheck) (store.ComplianceCheck, error) {
	if m.err != nil {
		return store.ComplianceCheck{}, m.err
	}
	return m.Store.CreateComplianceCheck(ctx, check)
}

func (m *mockStore) GetDashboardMetrics(ctx context.Context) (store.DashboardMetrics, bool, error) {
	if m.err != nil {
		return store.DashboardMetrics{}, false, m.err
	}
	return m.Store.GetDashboardMetrics(ctx)
}

func (m *mockStore) UpsertDashboardMetrics(ctx context.Context, patch store.DashboardMetricsPatch) (store.DashboardMetrics, error) {
	if m.err != nil {
		return store.DashboardMetrics{}, m.err
	}
	return m.Store.UpsertDashboardMetrics(ctx, patch)
}

// serve routes a single request through a mux holding only pattern, so path values resolve as in production.
func serve(h http.HandlerFunc, pattern, method, target string, body []byte) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return v
}
