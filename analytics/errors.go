package analytics

import "errors"

var (
	ErrNilSink        = errors.New("analytics: sink is nil")
	ErrInvalidSink    = errors.New("analytics: unknown sink")
	ErrMissingMongoDB = errors.New("analytics: mongo database is missing")
)
