package handlers

import (
	"errors"
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// GetLatestCodeMetrics handles GET /api/code/metrics.
func (h *Handlers) GetLatestCodeMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok, err := h.store.GetLatestCodeMetrics(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch code metrics", err)
		return
	}
	if !ok {
		h.httpError(w, "Code metrics not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, metrics)
}

// GetPipelineCodeMetrics handles GET /api/pipelines/{pipelineId}/code/metrics.
func (h *Handlers) GetPipelineCodeMetrics(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	metrics, found, err := h.store.GetCodeMetricsByPipeline(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch code metrics", err)
		return
	}
	if !found {
		h.httpError(w, "Code metrics not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, metrics)
}

// UpsertCodeMetrics handles POST /api/code/metrics.
// Metrics for a run that already has a record are merged into it.
func (h *Handlers) UpsertCodeMetrics(w http.ResponseWriter, r *http.Request) {
	var req api.UpsertCodeMetricsRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	metrics, err := h.store.UpsertCodeMetrics(r.Context(), store.CodeMetricsPatch{
		PipelineRunID:        req.PipelineRunID,
		Coverage:             req.Coverage,
		LinesOfCode:          req.LinesOfCode,
		CyclomaticComplexity: req.CyclomaticComplexity,
		MaintainabilityIndex: req.MaintainabilityIndex,
		TechnicalDebt:        req.TechnicalDebt,
		DuplicatedLines:      req.DuplicatedLines,
		CodeSmells:           req.CodeSmells,
		Bugs:                 req.Bugs,
		Vulnerabilities:      req.Vulnerabilities,
		SecurityHotspots:     req.SecurityHotspots,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, false)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to save code metrics", err)
		return
	}
	h.respondJson(w, http.StatusOK, metrics)
}
