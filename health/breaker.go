package health

import (
	"context"

	"github.com/jonwraymond/placeholders/resilience"
)

// BreakerChecker reports a circuit breaker as degraded while it is not
// closed.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a BreakerChecker.
func NewBreakerChecker(name string, cb *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: cb}
}

// Name returns the name of this checker.
func (b *BreakerChecker) Name() string { return b.name }

// Check inspects the breaker state.
func (b *BreakerChecker) Check(context.Context) Result {
	m := b.breaker.Metrics()
	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
	}
	if m.State == resilience.StateClosed {
		return Healthy("circuit closed").WithDetails(details)
	}
	return Degraded("circuit " + m.State.String()).WithDetails(details)
}

var _ Checker = (*BreakerChecker)(nil)
