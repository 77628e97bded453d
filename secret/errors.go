package secret

import "errors"

var (
	// ErrMissingEnv is returned when ${VAR} names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrUnknownProvider is returned for a reference to an unregistered provider.
	ErrUnknownProvider = errors.New("secret: provider is not registered")

	// ErrEmptySecret is returned by a strict resolver when a secret is empty.
	ErrEmptySecret = errors.New("secret: resolved value is empty")

	// ErrNotFound is returned by providers when a reference does not exist.
	ErrNotFound = errors.New("secret: not found")

	// ErrInvalidRef is returned for references a provider cannot accept.
	ErrInvalidRef = errors.New("secret: invalid reference")
)
