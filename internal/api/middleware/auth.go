package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
)

// IdentityKey is the echo context key holding the verified domain.Identity.
const IdentityKey = "identity"

// Auth verifies the bearer token and stores the caller's identity in the
// context. Preflight OPTIONS requests pass through untouched.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
			}

			identity, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrUnauthenticated
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}
