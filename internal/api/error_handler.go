package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrValidation.Error(), Fields: ve.Fields}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrValidation.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials, could not log you in"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: domain.ErrUnauthenticated.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "you are not allowed to modify this place"}
	case errors.Is(err, domain.ErrCreatorNotFound):
		return http.StatusUnprocessableEntity, errorResponse{Error: "could not find user for provided id"}
	case errors.Is(err, domain.ErrPlacesNotFound):
		return http.StatusNotFound, errorResponse{Error: "could not find places for the provided user id"}
	case errors.Is(err, domain.ErrPlaceNotFound):
		return http.StatusNotFound, errorResponse{Error: "could not find place for the provided id"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrUserExists.Error()}
	case errors.Is(err, domain.ErrGeocoding):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrGeocoding.Error()}
	}

	// Transaction, signing, storage and anything unknown: log the real cause,
	// return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	msg := "something went wrong, please try again later"
	if errors.Is(err, domain.ErrTransaction) {
		msg = "operation failed, please try again later"
	}
	return http.StatusInternalServerError, errorResponse{Error: msg}
}
