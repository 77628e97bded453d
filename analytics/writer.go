package analytics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/resilience"
)

// WriterConfig configures a Writer.
type WriterConfig struct {
	// Geo names the location headers. Default: DefaultGeoHeaders
	Geo *GeoHeaders

	// Timeout bounds one sink write. Default: 5s
	Timeout time.Duration

	// MaxPending bounds writes in flight. Points recorded while every
	// slot is taken are dropped. Default: 64
	MaxPending int

	// Logger receives sink failures. Default: no-op
	Logger observe.Logger
}

// Writer records data points without blocking the request.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: sink failures are logged and swallowed.
type Writer struct {
	sink    Sink
	geo     GeoHeaders
	timeout time.Duration
	logger  observe.Logger
	pending *resilience.Bulkhead

	wg sync.WaitGroup
}

// NewWriter creates a Writer over sink.
func NewWriter(sink Sink, config WriterConfig) (*Writer, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	geo := DefaultGeoHeaders()
	if config.Geo != nil {
		geo = *config.Geo
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.MaxPending <= 0 {
		config.MaxPending = 64
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Writer{
		sink:    sink,
		geo:     geo,
		timeout: config.Timeout,
		logger:  config.Logger.With(observe.F("component", "analytics")),
		pending: resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: config.MaxPending}),
	}, nil
}

// Record builds the point for r and writes it in the background. r is not
// used after Record returns. When MaxPending writes are already in flight
// the point is dropped.
func (w *Writer) Record(ctx context.Context, r *http.Request, cached bool) {
	p := FromRequest(r, w.geo, cached)
	ctx = context.WithoutCancel(ctx)

	if err := w.pending.Acquire(ctx); err != nil {
		w.logger.Warn(ctx, "data point dropped", observe.Err(err))
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.pending.Release()
		ctx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()
		if err := w.sink.Write(ctx, p); err != nil {
			w.logger.Warn(ctx, "data point dropped", observe.Err(err))
		}
	}()
}

// Wait blocks until pending writes finish or ctx is done.
func (w *Writer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
