package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
)

// DefaultMaxUploadBytes bounds a single image upload.
const DefaultMaxUploadBytes int64 = 500 * 1024

// formUpload reads a multipart file field. A missing field yields nil so the
// service validator reports it alongside the other fields.
func formUpload(c echo.Context, field string, maxBytes int64) (*ports.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if fh.Size > maxBytes {
		return nil, domain.NewValidationError(field, fmt.Sprintf("%s must not exceed %d bytes", field, maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.NewValidationError(field, fmt.Sprintf("%s must not exceed %d bytes", field, maxBytes))
	}

	return &ports.Upload{Filename: fh.Filename, Data: data}, nil
}
