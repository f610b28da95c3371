// Package observability provides OpenTelemetry instrumentation for tracing and metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"devsecboard/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// MeterName is the instrumentation scope of every devsecboard instrument.
const MeterName = "devsecboard"

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.Handler(), provider.Shutdown, nil
}

// StatsFunc reports current store counts.
type StatsFunc func(ctx context.Context) (store.Stats, error)

// RegisterStoreGauges registers observable gauges that read the store only when scraped.
// Errors from stats are reported through onError and the scrape continues without values.
func RegisterStoreGauges(meter otelmetric.Meter, stats StatsFunc, onError func(error)) error {
	pipelines, err := meter.Int64ObservableGauge("devsecboard.pipeline.runs",
		otelmetric.WithDescription("Number of pipeline runs held by the store"))
	if err != nil {
		return fmt.Errorf("failed to create pipeline runs gauge: %w", err)
	}
	running, err := meter.Int64ObservableGauge("devsecboard.pipeline.running",
		otelmetric.WithDescription("Number of pipeline runs currently running"))
	if err != nil {
		return fmt.Errorf("failed to create running pipelines gauge: %w", err)
	}
	openIssues, err := meter.Int64ObservableGauge("devsecboard.security.open_issues",
		otelmetric.WithDescription("Number of open security issues"))
	if err != nil {
		return fmt.Errorf("failed to create open issues gauge: %w", err)
	}
	criticalIssues, err := meter.Int64ObservableGauge("devsecboard.security.critical_open_issues",
		otelmetric.WithDescription("Number of open security issues with critical severity"))
	if err != nil {
		return fmt.Errorf("failed to create critical issues gauge: %w", err)
	}
	pendingDeployments, err := meter.Int64ObservableGauge("devsecboard.deployments.in_progress",
		otelmetric.WithDescription("Number of deployments pending or deploying"))
	if err != nil {
		return fmt.Errorf("failed to create deployments gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, obs otelmetric.Observer) error {
		s, err := stats(ctx)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return nil
		}
		obs.ObserveInt64(pipelines, int64(s.PipelineRuns))
		obs.ObserveInt64(running, int64(s.RunningPipelines))
		obs.ObserveInt64(openIssues, int64(s.OpenIssues))
		obs.ObserveInt64(criticalIssues, int64(s.CriticalOpen))
		obs.ObserveInt64(pendingDeployments, int64(s.PendingDeployment))
		return nil
	}, pipelines, running, openIssues, criticalIssues, pendingDeployments)
	if err != nil {
		return fmt.Errorf("failed to register store gauges: %w", err)
	}
	return nil
}
