package config

import "errors"

var (
	ErrInvalidBackend   = errors.New("config: unknown cache backend")
	ErrMissingRedisURL  = errors.New("config: redis url is required")
	ErrInvalidSink      = errors.New("config: unknown analytics sink")
	ErrMissingMongo     = errors.New("config: mongo uri and database are required")
	ErrMissingAdminAuth = errors.New("config: admin requires api keys or a jwt secret")
	ErrInvalidImageHost = errors.New("config: image host is invalid")
	ErrInvalidDuration  = errors.New("config: duration must be positive")
)
