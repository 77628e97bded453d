package observe

import (
	"context"
	"time"
)

// OperationFunc is a unit of work observed by Middleware.
type OperationFunc func(ctx context.Context) error

// Middleware wraps operations with a span, metrics and a log line.
//
// Contract:
//   - Concurrency: Wrap returns a function safe for concurrent use.
//   - Errors: errors from the wrapped function are recorded and returned
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced with
// no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver builds a Middleware from an Observer's providers.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics returns the recorder used by the middleware.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Wrap observes every call of fn as op. Successful calls log at debug,
// failures at error.
func (m *Middleware) Wrap(op Operation, fn OperationFunc) OperationFunc {
	logger := m.logger.With(F("component", op.Component), F("operation", op.Name))
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, op)
		start := time.Now()

		err := fn(ctx)

		d := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordOperation(ctx, op, d, err)

		ms := F("duration_ms", float64(d)/float64(time.Millisecond))
		if err != nil {
			logger.Error(ctx, "operation failed", ms, Err(err))
		} else {
			logger.Debug(ctx, "operation completed", ms)
		}
		return err
	}
}
