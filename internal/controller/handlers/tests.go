package handlers

import (
	"errors"
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// ListTestResults handles GET /api/pipelines/{pipelineId}/tests.
func (h *Handlers) ListTestResults(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	results, err := h.store.ListTestResults(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch test results", err)
		return
	}
	h.respondJson(w, http.StatusOK, results)
}

// CreateTestResults handles POST /api/pipelines/{pipelineId}/tests.
func (h *Handlers) CreateTestResults(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	var req api.CreateTestResultsRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	// Validate guarantees the counts are present.
	results, err := h.store.CreateTestResults(r.Context(), store.TestResults{
		PipelineRunID: pipelineID,
		TestSuite:     req.TestSuite,
		TotalTests:    *req.TotalTests,
		PassedTests:   *req.PassedTests,
		FailedTests:   *req.FailedTests,
		SkippedTests:  *req.SkippedTests,
		Duration:      req.Duration,
		Coverage:      req.Coverage,
		ReportURL:     req.ReportURL,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, true)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create test results", err)
		return
	}
	h.respondJson(w, http.StatusOK, results)
}
