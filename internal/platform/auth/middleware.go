package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware attaches the caller's identity to the request context. A Bearer
// ID token on the request wins; otherwise the agent's session identity is
// used. Requests with neither pass through anonymous, since profile editing
// works signed out (sync just reports "cannot send").
func Middleware(session *Session, verifier *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
				}
				id, err := verifier.Verify(parts[1])
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				ctx := WithIdentity(c.Request().Context(), id)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}

			if id := session.Current(); id != nil {
				ctx := WithIdentity(c.Request().Context(), *id)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
