// Package cache coordinates the placeholder response cache.
//
// A Coordinator derives a key from the canonical request URL, serves
// stored responses on a hit without rendering, and on a miss renders,
// decorates and returns the fresh response while storing a copy in the
// background. Backends implement Cache: MemoryCache (bounded LRU),
// RedisCache (shared tier) and TieredCache (memory in front of redis).
//
// Policy holds the response TTLs; StaticPolicy the asset TTLs used by the
// site handler.
package cache
