// Package resilience guards the service's outbound dependencies and
// inbound traffic.
//
// # Patterns
//
//   - CircuitBreaker stops calling the shared cache tier after repeated
//     failures and probes it again once the reset timeout has elapsed.
//   - Timeout bounds a single call.
//   - Bulkhead caps concurrent background work such as cache stores.
//   - RateLimiter applies a token bucket per client key.
//
// Executor composes the first three around a single operation:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 64})),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithTimeout(250*time.Millisecond),
//	)
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return client.Set(ctx, key, value, ttl).Err()
//	})
//
// Failed operations are never retried.
package resilience
