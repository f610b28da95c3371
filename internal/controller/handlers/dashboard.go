package handlers

import (
	"net/http"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// GetDashboardMetrics handles GET /api/dashboard/metrics.
func (h *Handlers) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok, err := h.store.GetDashboardMetrics(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch dashboard metrics", err)
		return
	}
	if !ok {
		h.httpError(w, "Dashboard metrics not found", http.StatusNotFound)
		return
	}
	h.respondJson(w, http.StatusOK, metrics)
}

// UpsertDashboardMetrics handles POST /api/dashboard/metrics.
func (h *Handlers) UpsertDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	var req api.UpsertDashboardMetricsRequest
	if !h.decodeBody(w, r, &req, false) {
		return
	}

	metrics, err := h.store.UpsertDashboardMetrics(r.Context(), store.DashboardMetricsPatch{
		Period:                req.Period,
		Date:                  req.Date,
		TotalPipelines:        req.TotalPipelines,
		SuccessfulPipelines:   req.SuccessfulPipelines,
		FailedPipelines:       req.FailedPipelines,
		AverageDuration:       req.AverageDuration,
		TotalSecurityIssues:   req.TotalSecurityIssues,
		CriticalIssues:        req.CriticalIssues,
		HighIssues:            req.HighIssues,
		MediumIssues:          req.MediumIssues,
		LowIssues:             req.LowIssues,
		ResolvedIssues:        req.ResolvedIssues,
		AverageCoverage:       req.AverageCoverage,
		AverageComplexity:     req.AverageComplexity,
		TotalTechnicalDebt:    req.TotalTechnicalDebt,
		TotalDeployments:      req.TotalDeployments,
		SuccessfulDeployments: req.SuccessfulDeployments,
		FailedDeployments:     req.FailedDeployments,
		AverageDeploymentTime: req.AverageDeploymentTime,
	})
	if err != nil {
		h.internalError(w, r, "Failed to save dashboard metrics", err)
		return
	}
	h.respondJson(w, http.StatusOK, metrics)
}
