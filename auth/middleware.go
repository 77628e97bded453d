package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware authenticates every request with authn and requires role.
// Failures answer 401 with a bearer challenge; a missing role answers
// 403. The identity is attached to the request context.
func Middleware(authn Authenticator, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			ctx := r.Context()
			req := RequestFromHTTP(r)

			if !authn.Supports(ctx, req) {
				return unauthorized(c, ErrMissingCredentials)
			}
			result, err := authn.Authenticate(ctx, req)
			if err != nil {
				return err
			}
			if !result.Authenticated {
				return unauthorized(c, result.Error)
			}
			id := result.Identity
			if id.IsExpired() {
				return unauthorized(c, ErrTokenExpired)
			}
			if role != "" && !id.HasRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, ErrForbidden.Error()).SetInternal(ErrForbidden)
			}

			c.SetRequest(r.WithContext(WithIdentity(ctx, id)))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, err error) error {
	if err == nil {
		err = ErrInvalidCredentials
	}
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="placeholders"`)
	msg := ErrInvalidCredentials.Error()
	if errors.Is(err, ErrMissingCredentials) || errors.Is(err, ErrTokenExpired) {
		msg = err.Error()
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(err)
}
