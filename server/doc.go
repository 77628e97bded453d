// Package server is the HTTP front of the service.
//
// Requests on the image host, and requests under the API prefix on any
// host, render a placeholder through the cache coordinator. Every other
// path is served by the static site. The server also mounts the health
// endpoints, the Prometheus scrape endpoint and the guarded admin purge.
//
// New assembles the server from a config.Config: it picks the cache
// backend, the analytics sink and the admin authenticators, and registers
// their health checks. Run serves until the context ends and then drains
// in-flight cache stores and analytics writes.
package server
