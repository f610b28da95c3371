package handlers

import (
	"errors"
	"net/http"
	"slices"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// ListSecurityIssues handles GET /api/security/issues.
// The optional severity, status and category query parameters narrow the result.
func (h *Handlers) ListSecurityIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SecurityIssueFilter{
		Severity: store.Severity(q.Get("severity")),
		Status:   store.IssueStatus(q.Get("status")),
		Category: q.Get("category"),
	}
	if filter.Severity != "" && !slices.Contains(api.Severities, string(filter.Severity)) {
		h.httpError(w, "Invalid severity filter", http.StatusBadRequest)
		return
	}
	if filter.Status != "" && !slices.Contains(api.IssueStatuses, string(filter.Status)) {
		h.httpError(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	issues, err := h.store.ListSecurityIssues(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "Failed to fetch security issues", err)
		return
	}
	h.respondJson(w, http.StatusOK, issues)
}

// ListPipelineSecurityIssues handles GET /api/pipelines/{pipelineId}/security/issues.
func (h *Handlers) ListPipelineSecurityIssues(w http.ResponseWriter, r *http.Request) {
	pipelineID, ok := h.pathID(w, r, "pipelineId", "pipeline")
	if !ok {
		return
	}

	issues, err := h.store.ListSecurityIssuesByPipeline(r.Context(), pipelineID)
	if err != nil {
		h.internalError(w, r, "Failed to fetch security issues", err)
		return
	}
	h.respondJson(w, http.StatusOK, issues)
}

// CreateSecurityIssue handles POST /api/security/issues.
func (h *Handlers) CreateSecurityIssue(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSecurityIssueRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	issue, err := h.store.CreateSecurityIssue(r.Context(), store.SecurityIssue{
		PipelineRunID:  req.PipelineRunID,
		Title:          req.Title,
		Severity:       store.Severity(req.Severity),
		Category:       req.Category,
		Tool:           req.Tool,
		File:           req.File,
		Line:           req.Line,
		Column:         req.Column,
		Description:    req.Description,
		Recommendation: req.Recommendation,
		CWEID:          req.CWEID,
		CVSSScore:      req.CVSSScore,
		AssignedTo:     req.AssignedTo,
	})
	if errors.Is(err, store.ErrPipelineNotFound) {
		h.pipelineMissing(w, false)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to create security issue", err)
		return
	}
	h.respondJson(w, http.StatusOK, issue)
}

// UpdateSecurityIssue handles PATCH /api/security/issues/{id}.
func (h *Handlers) UpdateSecurityIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id", "issue")
	if !ok {
		return
	}

	var req api.UpdateSecurityIssueRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	issue, found, err := h.store.UpdateSecurityIssue(r.Context(), id, store.SecurityIssuePatch{
		Title:          req.Title,
		Severity:       enumPtr[store.Severity](req.Severity),
		Category:       req.Category,
		Tool:           req.Tool,
		File:           req.File,
		Line:           req.Line,
		Column:         req.Column,
		Description:    req.Description,
		Recommendation: req.Recommendation,
		CWEID:          req.CWEID,
		CVSSScore:      req.CVSSScore,
		Status:         enumPtr[store.IssueStatus](req.Status),
		AssignedTo:     req.AssignedTo,
		ResolvedAt:     req.ResolvedAt,
	})
	if err != nil {
		h.internalError(w, r, "Failed to update security issue", err)
		return
	}
	if !found {
		h.httpError(w, "Security issue not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, issue)
}
