// Package health reports service health for probes.
//
// A Checker reports the Status of one dependency: the cache backend, the
// analytics sink, the redis circuit breaker or the Go runtime itself.
// An Aggregator runs every registered checker concurrently, and Register
// mounts the probe endpoints on an echo server:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewPingChecker("cache", coord.Ping, health.StatusDegraded))
//	agg.Register(health.NewBreakerChecker("redis", breaker))
//	health.Register(e, agg)
//
// The cache and analytics are best-effort, so their failures degrade the
// service rather than take it out of rotation.
package health
