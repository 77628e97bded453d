package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a call when no timeout is configured.
const DefaultTimeout = time.Second

// Timeout bounds the duration of a single call.
type Timeout struct {
	d time.Duration
}

// NewTimeout creates a Timeout. A non-positive d uses DefaultTimeout.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timeout{d: d}
}

// Duration returns the configured bound.
func (t *Timeout) Duration() time.Duration {
	return t.d
}

// Execute runs op with a derived deadline. When the deadline passes first
// ErrTimeout is returned and op keeps running until it observes ctx.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}
