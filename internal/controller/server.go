// Package controller wires the dashboard HTTP API: routes, middleware and server lifecycle.
package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"devsecboard/internal/controller/handlers"
	"devsecboard/internal/controller/middleware"
	"devsecboard/internal/events"

	"go.opentelemetry.io/otel/metric"
)

// Options tunes the optional parts of the server.
type Options struct {
	// Serve /api/metrics, /api/pipeline/current, /api/pipeline/start and /api/quality
	LegacyRoutes bool

	CORSAllowedOrigins []string

	// Requests per second across all clients; 0 disables limiting
	RateLimit      float64
	RateLimitBurst int

	// Nil leaves /metrics unrouted
	MetricsHandler http.Handler
	// Nil disables per-route HTTP metrics
	Meter metric.Meter

	Tracing bool

	ShutdownTimeout time.Duration
}

// Server is the HTTP server for the dashboard API.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New creates a new dashboard server. hub may be nil, in which case /api/events is not served.
func New(addr string, store handlers.Store, hub *events.Hub, log *slog.Logger, opts Options) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	h := handlers.New(store, log)

	mux := http.NewServeMux()
	registerRoutes(mux, h, opts.LegacyRoutes)
	if hub != nil {
		mux.HandleFunc("GET /api/events", hub.ServeWS)
	}
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	mws := []middleware.Middleware{
		middleware.Recover(log),
		middleware.RequestID,
		middleware.Logging(log),
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.RateLimit(opts.RateLimit, opts.RateLimitBurst),
	}
	// Tracing and Metrics read the matched route, so they stay innermost.
	if opts.Tracing {
		mws = append(mws, middleware.Tracing())
	}
	if opts.Meter != nil {
		metricsMW, err := middleware.Metrics(opts.Meter)
		if err != nil {
			return nil, err
		}
		mws = append(mws, metricsMW)
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           middleware.Chain(mux, mws...),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func registerRoutes(mux *http.ServeMux, h *handlers.Handlers, legacy bool) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)

	mux.HandleFunc("GET /api/dashboard/metrics", h.GetDashboardMetrics)
	mux.HandleFunc("POST /api/dashboard/metrics", h.UpsertDashboardMetrics)

	mux.HandleFunc("GET /api/pipelines", h.ListPipelines)
	mux.HandleFunc("GET /api/pipelines/current", h.GetCurrentPipeline)
	mux.HandleFunc("POST /api/pipelines/start", h.StartPipeline)
	mux.HandleFunc("GET /api/pipelines/{id}", h.GetPipeline)
	mux.HandleFunc("PATCH /api/pipelines/{id}", h.UpdatePipeline)

	mux.HandleFunc("GET /api/pipelines/{pipelineId}/stages", h.ListStages)
	mux.HandleFunc("POST /api/pipelines/{pipelineId}/stages", h.CreateStage)
	mux.HandleFunc("PATCH /api/stages/{id}", h.UpdateStage)

	mux.HandleFunc("GET /api/security/issues", h.ListSecurityIssues)
	mux.HandleFunc("GET /api/pipelines/{pipelineId}/security/issues", h.ListPipelineSecurityIssues)
	mux.HandleFunc("POST /api/security/issues", h.CreateSecurityIssue)
	mux.HandleFunc("PATCH /api/security/issues/{id}", h.UpdateSecurityIssue)

	mux.HandleFunc("GET /api/code/metrics", h.GetLatestCodeMetrics)
	mux.HandleFunc("GET /api/pipelines/{pipelineId}/code/metrics", h.GetPipelineCodeMetrics)
	mux.HandleFunc("POST /api/code/metrics", h.UpsertCodeMetrics)

	mux.HandleFunc("GET /api/pipelines/{pipelineId}/tests", h.ListTestResults)
	mux.HandleFunc("POST /api/pipelines/{pipelineId}/tests", h.CreateTestResults)

	mux.HandleFunc("GET /api/deployments", h.ListDeployments)
	mux.HandleFunc("GET /api/pipelines/{pipelineId}/deployments", h.ListPipelineDeployments)
	mux.HandleFunc("POST /api/deployments", h.CreateDeployment)
	mux.HandleFunc("PATCH /api/deployments/{id}", h.UpdateDeployment)

	mux.HandleFunc("GET /api/pipelines/{pipelineId}/compliance", h.ListComplianceChecks)
	mux.HandleFunc("POST /api/pipelines/{pipelineId}/compliance", h.CreateComplianceCheck)

	if legacy {
		mux.HandleFunc("GET /api/metrics", h.GetDashboardMetrics)
		mux.HandleFunc("GET /api/pipeline/current", h.GetCurrentPipeline)
		mux.HandleFunc("POST /api/pipeline/start", h.StartPipeline)
		mux.HandleFunc("GET /api/quality", h.GetLatestCodeMetrics)
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
