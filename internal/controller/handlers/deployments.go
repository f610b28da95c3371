package handlers

import (
	"errors"
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// ListDeployments handles GET /api/deployments.
func (h *Handlers) ListDeployments(w http.ResponseWriter, r *http.Request) {
	deployments, err := h.store.ListDeployments(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch deployments", err)
		return
	}
	h.respondJson(w, http.StatusOK, deployments)
}

// ListPipelineDeployments handles GET /api/pipelines/{pipelineId}/deployments.
func (h *Handlers) ListPipelineDeployments(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	deployments, err := h.store.ListDeploymentsByPipeline(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch deployments", err)
		return
	}
	h.respondJson(w, http.StatusOK, deployments)
}

// CreateDeployment handles POST /api/deployments.
func (h *Handlers) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req api.CreateDeploymentRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	deployment, err := h.store.CreateDeployment(r.Context(), store.Deployment{
		PipelineRunID:  *req.PipelineRunID,
		Environment:    req.Environment,
		Version:        req.Version,
		Status:         store.DeploymentStatus(req.Status),
		DeployedBy:     req.DeployedBy,
		DeploymentURL:  req.DeploymentURL,
		HealthCheckURL: req.HealthCheckURL,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, false)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create deployment", err)
		return
	}
	h.respondJson(w, http.StatusOK, deployment)
}

// UpdateDeployment handles PATCH /api/deployments/{id}.
func (h *Handlers) UpdateDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "deployment")
	if !ok {
		return
	}

	var req api.UpdateDeploymentRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	deployment, found, err := h.store.UpdateDeployment(r.Context(), id, store.DeploymentPatch{
		Environment:    req.Environment,
		Version:        req.Version,
		Status:         enumPtr[store.DeploymentStatus](req.Status),
		DeployedBy:     req.DeployedBy,
		DeploymentURL:  req.DeploymentURL,
		HealthCheckURL: req.HealthCheckURL,
		EndTime:        req.EndTime,
		RollbackTime:   req.RollbackTime,
	})
	if err != nil {
		h.internalError(w, r, "Failed to update deployment", err)
		return
	}
	if !found {
		h.httpError(w, "Deployment not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, deployment)
}
