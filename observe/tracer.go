package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// spanPrefix namespaces every span and log scope emitted by the service.
const spanPrefix = "placeholders."

// Operation identifies a unit of work for telemetry.
type Operation struct {
	Component string // svg, cache, site, analytics
	Name      string // render, store, purge, ...
}

// SpanName returns placeholders.<component>.<name>, or
// placeholders.<name> without a component.
func (o Operation) SpanName() string {
	if o.Component != "" {
		return spanPrefix + o.Component + "." + o.Name
	}
	return spanPrefix + o.Name
}

// Validate reports ErrMissingOperationName for an unnamed operation.
func (o Operation) Validate() error {
	if o.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}

func (o Operation) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("operation.name", o.Name)}
	if o.Component != "" {
		attrs = append(attrs, attribute.String("operation.component", o.Component))
	}
	return attrs
}

// Tracer starts and ends spans for operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan is best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, op Operation, attrs ...attribute.KeyValue) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &otelTracer{tracer: t}
}

func (t *otelTracer) StartSpan(ctx context.Context, op Operation, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append(op.attributes(), attrs...)
	return t.tracer.Start(ctx, op.SpanName(),
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *otelTracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
