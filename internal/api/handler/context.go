package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sharedplaces/places-api/internal/api/middleware"
	"github.com/sharedplaces/places-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware, or an
// anonymous identity when the route is unauthenticated. Services reject
// anonymous callers on mutations.
func ctxIdentity(c echo.Context) domain.Identity {
	identity, _ := c.Get(middleware.IdentityKey).(domain.Identity)
	return identity
}
