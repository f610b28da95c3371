package observability

import (
	"context"
	"testing"
	"time"
)

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name string
		cfg  TracerConfig
	}{
		{"Unreachable endpoint", TracerConfig{ServiceName: "test-service", CollectorAddr: "invalid-endpoint:9999"}},
		{"Local collector", TracerConfig{ServiceName: "devsecboard", ServiceVersion: "dev", CollectorAddr: "localhost:4317"}},
		{"Sampled", TracerConfig{ServiceName: "devsecboard", CollectorAddr: "localhost:4317", SampleRatio: 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The gRPC connection is lazy, so init succeeds without a collector.
			shutdown, err := InitTracer(context.Background(), tt.cfg)
			if err != nil {
				t.Logf("InitTracer returned error (may be expected in this environment): %v", err)
				return
			}
			if shutdown == nil {
				t.Fatal("expected shutdown function to be non-nil")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		})
	}
}
