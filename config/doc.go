// Package config loads the service configuration.
//
// Values come from a YAML file, are overridden by PLACEHOLDERS_*
// environment variables, and take their env-default otherwise. Secrets may
// be written as ${VAR} or secretref:<provider>:<ref> and are resolved after
// loading. Load validates the result.
package config
