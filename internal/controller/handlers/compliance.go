package handlers

import (
	"errors"
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// ListComplianceChecks handles GET /api/pipelines/{pipelineId}/compliance.
func (h *Handlers) ListComplianceChecks(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	checks, err := h.store.ListComplianceChecks(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch compliance checks", err)
		return
	}
	h.respondJson(w, http.StatusOK, checks)
}

// CreateComplianceCheck handles POST /api/pipelines/{pipelineId}/compliance.
func (h *Handlers) CreateComplianceCheck(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	var req api.CreateComplianceCheckRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	check, err := h.store.CreateComplianceCheck(r.Context(), store.ComplianceCheck{
		PipelineRunID: pipelineID,
		Framework:     req.Framework,
		CheckType:     req.CheckType,
		CheckName:     req.CheckName,
		Status:        store.ComplianceStatus(req.Status),
		Severity:      req.Severity,
		Description:   req.Description,
		Evidence:      req.Evidence,
		Remediation:   req.Remediation,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, true)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create compliance check", err)
		return
	}
	h.respondJson(w, http.StatusOK, check)
}
