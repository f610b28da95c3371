package handlers

import (
	"net/http"
	"strings"
	"testing"

	"devsecboard/internal/store"
)

func TestListTestResults(t *testing.T) {
	h := New(newMockStore(t, true), nil)

	rr := serve(h.ListTestResults, "GET /api/pipelines/{pipelineId}/tests", http.MethodGet, "/api/pipelines/1/tests", nil)
	results := decode[[]store.TestResults](t, rr)
	if len(results) != 3 {
		t.Fatalf("got %d suites, want 3", len(results))
	}
	if results[0].TestSuite != "unit" || results[2].TestSuite != "e2e" {
		t.Errorf("suites out of creation order: %+v", results)
	}
}

func TestCreateTestResults(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           string
		expectedStatus int
		expectedInBody string
	}{
		{"Success", "/api/pipelines/1/tests", `{"testSuite":"security","totalTests":10,"passedTests":9,"failedTests":1,"skippedTests":0}`, http.StatusOK, `"testSuite":"security"`},
		{"Unknown Pipeline", "/api/pipelines/77/tests", `{"testSuite":"unit","totalTests":1,"passedTests":1,"failedTests":0,"skippedTests":0}`, http.StatusNotFound, "Pipeline not found"},
		{"Missing Counts", "/api/pipelines/1/tests", `{"testSuite":"unit"}`, http.StatusBadRequest, "totalTests: is required"},
		{"Counts Exceed Total", "/api/pipelines/1/tests", `{"testSuite":"unit","totalTests":1,"passedTests":2,"failedTests":0,"skippedTests":0}`, http.StatusBadRequest, "must be at least"},
		{"Invalid Id", "/api/pipelines/p1/tests", `{}`, http.StatusBadRequest, "Invalid pipeline id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(newMockStore(t, true), nil)
			rr := serve(h.CreateTestResults, "POST /api/pipelines/{pipelineId}/tests", http.MethodPost, tt.target, []byte(tt.body))

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tt.expectedInBody) {
				t.Errorf("handler returned unexpected body: got %v want substring %v", rr.Body.String(), tt.expectedInBody)
			}
		})
	}
}
