// Package secret resolves credentials referenced from configuration.
//
// A configuration value may name a secret instead of holding it:
//
//	admin:
//	  jwt_secret: secretref:file:jwt_secret
//	  api_keys: ["secretref:env:PLACEHOLDERS_ADMIN_KEY"]
//	redis:
//	  url: redis://:${REDIS_PASSWORD}@cache:6379/0
//
// ${VAR} is expanded strictly (a missing variable is an error) and
// secretref:<provider>:<ref> is looked up through a Provider. The env
// provider reads the process environment; the file provider reads mounted
// secret files such as Docker or Kubernetes secrets.
package secret
