package handlers

import (
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// Defaults of a pipeline started from the dashboard.
const (
	startName        = "Automated pipeline"
	startBranch      = "main"
	startStage       = "source"
	startTriggeredBy = "dashboard"
	startCommitHash  = "abc123def456"
	startEnvironment = "staging"
)

// ListPipelines handles GET /api/pipelines.
func (h *Handlers) ListPipelines(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListPipelineRuns(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch pipelines", err)
		return
	}
	h.respondJson(w, http.StatusOK, runs)
}

// GetCurrentPipeline handles GET /api/pipelines/current.
// It returns the oldest running pipeline.
func (h *Handlers) GetCurrentPipeline(w http.ResponseWriter, r *http.Request) {
	run, ok, err := h.store.GetCurrentPipelineRun(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch current pipeline", err)
		return
	}
	if !ok {
		h.httpError(w, "No running pipeline", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, run)
}

// GetPipeline handles GET /api/pipelines/{id}.
func (h *Handlers) GetPipeline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "pipeline")
	if !ok {
		return
	}

	run, found, err := h.store.GetPipelineRun(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "Failed to fetch pipeline", err)
		return
	}
	if !found {
		h.httpError(w, "Pipeline not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, run)
}

// StartPipeline handles POST /api/pipelines/start.
// The body is optional; its fields override the defaults of the new run.
func (h *Handlers) StartPipeline(w http.ResponseWriter, r *http.Request) {
	var req api.StartPipelineRequest
	if !h.decodeBody(w, r, &req, true) {
		return
	}

	run := store.PipelineRun{
		Name:         startName,
		Branch:       startBranch,
		Status:       store.PipelineStatusRunning,
		CurrentStage: strPtr(startStage),
		TriggeredBy:  startTriggeredBy,
		CommitHash:   strPtr(startCommitHash),
		Environment:  strPtr(startEnvironment),
	}
	if req.Name != nil {
		run.Name = *req.Name
	}
	if req.Branch != nil {
		run.Branch = *req.Branch
	}
	if req.TriggeredBy != nil {
		run.TriggeredBy = *req.TriggeredBy
	}
	if req.CommitHash != nil {
		run.CommitHash = req.CommitHash
	}
	if req.Environment != nil {
		run.Environment = req.Environment
	}

	created, err := h.store.CreatePipelineRun(r.Context(), run)
	if err != nil {
		h.internalError(w, r, "Failed to start pipeline", err)
		return
	}
	h.respondJson(w, http.StatusOK, created)
}

// UpdatePipeline handles PATCH /api/pipelines/{id}.
func (h *Handlers) UpdatePipeline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "pipeline")
	if !ok {
		return
	}

	var req api.UpdatePipelineRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	run, found, err := h.store.UpdatePipelineRun(r.Context(), id, store.PipelineRunPatch{
		Name:         req.Name,
		Branch:       req.Branch,
		Status:       enumPtr[store.PipelineStatus](req.Status),
		CurrentStage: req.CurrentStage,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Duration:     req.Duration,
		TriggeredBy:  req.TriggeredBy,
		CommitHash:   req.CommitHash,
		Environment:  req.Environment,
	})
	if err != nil {
		h.internalError(w, r, "Failed to update pipeline", err)
		return
	}
	if !found {
		h.httpError(w, "Pipeline not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, run)
}

func strPtr(s string) *string { return &s }
