// Package handlers contains HTTP handlers for the dashboard API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"devsecboard/internal/logger"
	"devsecboard/internal/store"
	"devsecboard/pkg/api"
)

// Store combines the interfaces needed for the handlers to function.
type Store interface {
	Ping(ctx context.Context) error
	store.PipelineStore
	store.SecurityStore
	store.QualityStore
	store.DeploymentStore
	store.ComplianceStore
	store.DashboardStore
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store Store
	log   *slog.Logger
}

// New creates a new Handlers instance with the given store dependency.
// A nil logger falls back to slog.Default.
func New(s Store, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{store: s, log: log}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// invalidRequest answers 400, listing the failed fields when err is a validation error.
func (h *Handlers) invalidRequest(w http.ResponseWriter, message string, err error) {
	resp := api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(http.StatusBadRequest),
	}
	var verrs api.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs.Error()
	}
	h.respondJson(w, http.StatusBadRequest, resp)
}

// internalError logs err with the request id and answers 500 without leaking it.
func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logger.FromContext(r.Context(), h.log).Error(message,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	h.httpError(w, message, http.StatusInternalServerError)
}

// pathID parses the named integer path parameter. On failure it has already answered 400.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		h.httpError(w, "Invalid "+label+" id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// validatable is implemented by every request body in pkg/api.
type validatable interface {
	Validate() error
}

// decodeBody decodes and validates the request body into req. On failure it has already answered 400.
// An empty body is accepted only when allowEmpty is set.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, req validatable, allowEmpty bool) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			h.httpError(w, "Invalid request body", http.StatusBadRequest)
			return false
		}
	}
	if err := req.Validate(); err != nil {
		h.invalidRequest(w, "Invalid request body", err)
		return false
	}
	return true
}

// pipelineMissing answers a store.ErrPipelineNotFound. A pipeline id taken from the
// path is a missing resource, one taken from the body is bad input.
func (h *Handlers) pipelineMissing(w http.ResponseWriter, fromPath bool) {
	if fromPath {
		h.httpError(w, "Pipeline not found", http.StatusNotFound)
		return
	}
	h.httpError(w, "Referenced pipeline does not exist", http.StatusBadRequest)
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}
