// Package auth guards the administrative endpoints.
//
// Callers present either an API key in X-API-Key or an HS256 bearer
// token. A CompositeAuthenticator tries each Authenticator that supports
// the request, and Middleware turns the result into an echo guard that
// also requires a role:
//
//	authn := auth.NewCompositeAuthenticator(
//	    auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store),
//	    auth.NewJWTAuthenticator(auth.JWTConfig{Secret: secret}),
//	)
//	admin := e.Group("/admin", auth.Middleware(authn, auth.RoleAdmin))
package auth
