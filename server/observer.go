package server

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/placeholders/observe"
)

// nopObserver stands in when telemetry is off.
type nopObserver struct{}

func (nopObserver) Tracer() trace.Tracer           { return tracenoop.NewTracerProvider().Tracer("noop") }
func (nopObserver) Meter() metric.Meter            { return noop.NewMeterProvider().Meter("noop") }
func (nopObserver) Logger() observe.Logger         { return observe.NopLogger() }
func (nopObserver) MetricsHandler() http.Handler   { return nil }
func (nopObserver) Shutdown(context.Context) error { return nil }

var _ observe.Observer = nopObserver{}
