package cmd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devsecboard/internal/controller"
	"devsecboard/internal/store/memory"

	"github.com/spf13/viper"
)

// startBoard serves the real API over a seeded in-memory store and points the CLI at it.
func startBoard(t *testing.T) *memory.Store {
	t.Helper()
	resetViper()

	seed, err := memory.LoadSeed("")
	if err != nil {
		t.Fatalf("loading seed: %v", err)
	}
	st := memory.New(memory.WithSeed(seed))

	srv, err := controller.New(":0", st, nil, slog.New(slog.DiscardHandler), controller.Options{})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	viper.Set("url", ts.URL)
	return st
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(output, u) {
			t.Errorf("expected output not to contain %q, got:\n%s", u, output)
		}
	}
}

func assertAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got: %v", err)
	}
	if apiErr.StatusCode != status {
		t.Errorf("expected status %d, got %d", status, apiErr.StatusCode)
	}
	if apiErr.Message != message {
		t.Errorf("expected message %q, got %q", message, apiErr.Message)
	}
}

func TestPipelinesList(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "pipelines", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Build & Deploy - Main Branch", "running", "sast")
}

func TestPipelinesCurrent(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "pipelines", "current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Pipeline 1", "staging", "running")
}

func TestPipelinesGet_NotFound(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "pipelines", "get", "999")
	assertAPIError(t, err, http.StatusNotFound, "Pipeline not found")
}

func TestPipelinesGet_InvalidID(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "pipelines", "get", "abc")
	if err == nil || !strings.Contains(err.Error(), `invalid pipeline id "abc"`) {
		t.Errorf("expected invalid id error, got: %v", err)
	}
}

func TestPipelinesStart(t *testing.T) {
	st := startBoard(t)

	out, err := execute(t, "pipelines", "start", "--branch", "feature/login", "--triggered-by", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Pipeline 100 started", "feature/login", "alice", "source")

	run, ok, err := st.GetPipelineRun(t.Context(), 100)
	if err != nil || !ok {
		t.Fatalf("started run not stored: ok=%v err=%v", ok, err)
	}
	if run.Branch != "feature/login" || run.TriggeredBy != "alice" {
		t.Errorf("unexpected stored run: %+v", run)
	}
}

func TestPipelinesStart_SendsOnlySetFlags(t *testing.T) {
	resetViper()

	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pipelines/start" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got: %s", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id": 7, "name": "x", "branch": "main", "status": "running", "triggeredBy": "alice"}`))
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	if _, err := execute(t, "pipelines", "start", "--triggered-by", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 1 || body["triggeredBy"] != "alice" {
		t.Errorf("expected body with only triggeredBy, got %v", body)
	}
}

func TestPipelinesUpdate(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "pipelines", "update", "1", "--status", "success", "--stage", "deploy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "success", "deploy")
}

func TestPipelinesUpdate_NothingToUpdate(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "pipelines", "update", "1")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("expected nothing to update error, got: %v", err)
	}
}

func TestPipelinesUpdate_InvalidStatus(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "pipelines", "update", "1", "--status", "exploded")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got: %v", err)
	}
	if !strings.Contains(apiErr.Details, "status") {
		t.Errorf("expected details to name the status field, got %q", apiErr.Details)
	}
}

func TestStages(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "stages", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "source", "build", "sast", "dast", "deploy")

	out, err = execute(t, "stages", "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "No stages for pipeline 999")
}

func TestIssuesList_Filters(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "issues", "list", "--severity", "critical")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Potential SQL injection", "API key exposed in source code", "Total: 2")
	assertNotContains(t, out, "Missing security headers")
}

func TestIssuesList_PipelineScopeFiltersLocally(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "issues", "list", "--pipeline", "1", "--severity", "medium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Missing security headers", "Insufficient input validation", "Total: 2")
	assertNotContains(t, out, "Potential SQL injection")
}

func TestIssuesList_InvalidSeverity(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "issues", "list", "--severity", "catastrophic")
	if err == nil || !strings.Contains(err.Error(), "invalid severity") {
		t.Errorf("expected invalid severity error, got: %v", err)
	}
}

func TestIssuesList_SendsQuery(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("severity") != "high" || q.Get("status") != "open" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Has("category") {
			t.Errorf("unset filters must not be sent: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	out, err := execute(t, "issues", "list", "--severity", "high", "--status", "open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "No security issues")
}

func TestIssuesUpdate(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "issues", "update", "1", "--status", "resolved", "--assignee", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Issue 1 is", "resolved", "assigned to bob")
}

func TestIssuesUpdate_NotFound(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "issues", "update", "999", "--status", "resolved")
	assertAPIError(t, err, http.StatusNotFound, "Security issue not found")
}

func TestQuality(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "quality")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "87.3%", "12547", "Technical Debt")

	_, err = execute(t, "quality", "--pipeline", "999")
	assertAPIError(t, err, http.StatusNotFound, "Code metrics not found")
}

func TestTests(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "tests", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "unit", "integration", "e2e", "89.2")
}

func TestDeployments(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "deployments", "list", "--pipeline", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "v2.3.1", "staging", "pending")

	out, err = execute(t, "deployments", "update", "1", "--status", "rolled_back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Deployment 1 of v2.3.1 to staging is", "rolled_back", "Rolled back")
}

func TestDeploymentsUpdate_NotFound(t *testing.T) {
	startBoard(t)

	_, err := execute(t, "deployments", "update", "42", "--status", "success")
	assertAPIError(t, err, http.StatusNotFound, "Deployment not found")
}

func TestCompliance(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "compliance", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "SOC2", "Access Control Management", "GDPR", "warning")

	out, err = execute(t, "compliance", "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "No compliance checks for pipeline 999")
}

func TestMetrics(t *testing.T) {
	startBoard(t)

	out, err := execute(t, "metrics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "Dashboard metrics (daily)", "156", "94.2%", "14.5h", "87.3%")
}

func TestMetrics_NotFound(t *testing.T) {
	resetViper()

	st := memory.New()
	srv, err := controller.New(":0", st, nil, slog.New(slog.DiscardHandler), controller.Options{})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	viper.Set("url", ts.URL)

	_, err = execute(t, "metrics")
	assertAPIError(t, err, http.StatusNotFound, "Dashboard metrics not found")
}

func TestCommands_ServerUnreachable(t *testing.T) {
	resetViper()
	viper.Set("url", "http://127.0.0.1:1")

	_, err := execute(t, "pipelines", "list")
	if err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected request failure, got: %v", err)
	}
}
