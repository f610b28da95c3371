package handlers

import (
	"errors"
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// ListStages handles GET /api/pipelines/{pipelineId}/stages.
func (h *Handlers) ListStages(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	stages, err := h.store.ListPipelineStages(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch pipeline stages", err)
		return
	}
	h.respondJson(w, http.StatusOK, stages)
}

// CreateStage handles POST /api/pipelines/{pipelineId}/stages.
func (h *Handlers) CreateStage(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	var req api.CreateStageRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	stage, err := h.store.CreatePipelineStage(r.Context(), store.PipelineStage{
		PipelineRunID: pipelineID,
		StageName:     req.StageName,
		Status:        store.StageStatus(req.Status),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Duration:      req.Duration,
		Logs:          req.Logs,
		ArtifactsURL:  req.ArtifactsURL,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, true)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create pipeline stage", err)
		return
	}
	h.respondJson(w, http.StatusOK, stage)
}

// UpdateStage handles PATCH /api/stages/{id}.
func (h *Handlers) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "stage")
	if !ok {
		return
	}

	var req api.UpdateStageRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	stage, found, err := h.store.UpdatePipelineStage(r.Context(), id, store.PipelineStagePatch{
		StageName:    req.StageName,
		Status:       enumPtr[store.StageStatus](req.Status),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Duration:     req.Duration,
		Logs:         req.Logs,
		ArtifactsURL: req.ArtifactsURL,
	})
	if err != nil {
		h.internalError(w, r, "Failed to update pipeline stage", err)
		return
	}
	if !found {
		h.httpError(w, "Stage not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, stage)
}
