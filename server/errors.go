package server

import "errors"

var (
	ErrNilConfig  = errors.New("server: config is nil")
	ErrInvalidURL = errors.New("server: url must be absolute")
)
