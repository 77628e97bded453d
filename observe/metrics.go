package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics records service measurements.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOperation counts op and records its duration and failure.
	RecordOperation(ctx context.Context, op Operation, d time.Duration, err error)

	// RecordCacheLookup counts a cache lookup by outcome (hit, miss, bypass).
	RecordCacheLookup(ctx context.Context, outcome string)
}

type otelMetrics struct {
	total    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
	lookups  metric.Int64Counter
}

// NewMetrics creates the instruments on meter. A nil meter yields no-op
// instruments.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("noop")
	}
	total, err := meter.Int64Counter("placeholders.operation.total",
		metric.WithDescription("Operations started"),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter("placeholders.operation.errors",
		metric.WithDescription("Operations that failed"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("placeholders.operation.duration_ms",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	lookups, err := meter.Int64Counter("placeholders.cache.lookups",
		metric.WithDescription("Response cache lookups by outcome"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, err
	}
	return &otelMetrics{total: total, errors: errs, duration: duration, lookups: lookups}, nil
}

func (m *otelMetrics) RecordOperation(ctx context.Context, op Operation, d time.Duration, err error) {
	opt := metric.WithAttributes(op.attributes()...)
	m.total.Add(ctx, 1, opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(d)/float64(time.Millisecond), opt)
}

func (m *otelMetrics) RecordCacheLookup(ctx context.Context, outcome string) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.outcome", outcome)))
}

// NopMetrics records nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) RecordOperation(context.Context, Operation, time.Duration, error) {}
func (nopMetrics) RecordCacheLookup(context.Context, string)                       {}
