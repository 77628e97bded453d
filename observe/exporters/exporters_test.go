package exporters

import (
	"context"
	"errors"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"none", "", "stdout"} {
		exp, err := NewTracingExporter(ctx, name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q) error = %v", name, err)
			continue
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) = nil", name)
		}
	}

	if _, err := NewTracingExporter(ctx, "zipkin"); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewTracingExporter(zipkin) error = %v, want ErrUnknownExporter", err)
	}
}

func TestOTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "")
	ctx := context.Background()

	if _, err := NewTracingExporter(ctx, "otlp"); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("tracing error = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewMetricsReader(ctx, "otlp", nil); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("metrics error = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewLogExporter(ctx, "otlp"); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("logs error = %v, want ErrEndpointNotConfigured", err)
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	r, err := NewMetricsReader(ctx, "none", nil)
	if err != nil || r == nil {
		t.Fatalf("NewMetricsReader(none) = %v, %v", r, err)
	}

	reg := promclient.NewRegistry()
	r, err = NewMetricsReader(ctx, "prometheus", reg)
	if err != nil || r == nil {
		t.Fatalf("NewMetricsReader(prometheus) = %v, %v", r, err)
	}

	if _, err := NewMetricsReader(ctx, "graphite", nil); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewMetricsReader(graphite) error = %v, want ErrUnknownExporter", err)
	}
}

func TestNewLogExporter_None(t *testing.T) {
	exp, err := NewLogExporter(context.Background(), "none")
	if err != nil {
		t.Fatalf("NewLogExporter(none) error = %v", err)
	}
	if exp != nil {
		t.Errorf("NewLogExporter(none) = %v, want nil", exp)
	}
	if _, err := NewLogExporter(context.Background(), "syslog"); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewLogExporter(syslog) error = %v, want ErrUnknownExporter", err)
	}
}
