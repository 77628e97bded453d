package analytics

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/jonwraymond/placeholders/observe"
)

// Sink stores data points.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: Write should honor cancellation/deadlines.
type Sink interface {
	Write(ctx context.Context, p DataPoint) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, p DataPoint) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, p DataPoint) error {
	return f(ctx, p)
}

// Discard drops every point.
var Discard Sink = SinkFunc(func(context.Context, DataPoint) error { return nil })

// LogSink writes each point as a structured log line at info level.
type LogSink struct {
	logger observe.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger observe.Logger) *LogSink {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &LogSink{logger: logger.With(observe.F("component", "analytics"))}
}

// Write logs p.
func (s *LogSink) Write(ctx context.Context, p DataPoint) error {
	s.logger.Info(ctx, "data point",
		observe.F("url", p.Blob(BlobURL)),
		observe.F("user_agent", p.Blob(BlobUserAgent)),
		observe.F("referer", p.Blob(BlobReferer)),
		observe.F("protocol", p.Blob(BlobProtocol)),
		observe.F("city", p.Blob(BlobCity)),
		observe.F("colo", p.Blob(BlobColo)),
		observe.F("country", p.Blob(BlobCountry)),
		observe.F("tls", p.Blob(BlobTLSVersion)),
		observe.F("asn", p.Doubles[DoubleASN]),
		observe.F("cached", p.Cached()),
	)
	return nil
}

// MetricsSink counts API requests by country, colo and cache outcome.
type MetricsSink struct {
	requests metric.Int64Counter
}

// NewMetricsSink creates the counter on meter. A nil meter yields a no-op.
func NewMetricsSink(meter metric.Meter) (*MetricsSink, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("noop")
	}
	requests, err := meter.Int64Counter("placeholders.api.requests",
		metric.WithDescription("Image API requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &MetricsSink{requests: requests}, nil
}

// Write counts p.
func (s *MetricsSink) Write(ctx context.Context, p DataPoint) error {
	s.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("country", p.Blob(BlobCountry)),
		attribute.String("colo", p.Blob(BlobColo)),
		attribute.String("cached", strconv.FormatBool(p.Cached())),
	))
	return nil
}

// MultiSink writes to every sink and joins the errors.
type MultiSink []Sink

// Write writes p to each sink.
func (m MultiSink) Write(ctx context.Context, p DataPoint) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Sink = SinkFunc(nil)
	_ Sink = (*LogSink)(nil)
	_ Sink = (*MetricsSink)(nil)
	_ Sink = MultiSink(nil)
)
