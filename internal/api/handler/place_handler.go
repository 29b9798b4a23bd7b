package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharedplaces/places-api/internal/core/ports"
)

// PlaceHandler handles HTTP requests for place operations. Errors are
// returned to the central error handler.
type PlaceHandler struct {
	service        ports.PlaceService
	maxUploadBytes int64
}

func NewPlaceHandler(service ports.PlaceService, maxUploadBytes int64) *PlaceHandler {
	return &PlaceHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Get handles GET /api/places/:pid.
//
// @Summary      Get a place by id
// @Tags         places
// @Produce      json
// @Param        pid  path      string  true  "Place id"
// @Success      200  {object}  placeResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/places/{pid} [get]
func (h *PlaceHandler) Get(c echo.Context) error {
	place, err := h.service.GetPlace(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placeResponse{Place: place})
}

// ListByUser handles GET /api/places/user/:uid.
//
// @Summary      List the places created by a user
// @Tags         places
// @Produce      json
// @Param        uid  path      string  true  "User id"
// @Success      200  {object}  placesResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/places/user/{uid} [get]
func (h *PlaceHandler) ListByUser(c echo.Context) error {
	places, err := h.service.ListPlacesByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placesResponse{Places: places})
}

// Create handles POST /api/places.
//
// @Summary      Create a place
// @Tags         places
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true  "Title"
// @Param        description  formData  string  true  "Description (min 5 characters)"
// @Param        address      formData  string  true  "Street address"
// @Param        image        formData  file    true  "PNG or JPEG image"
// @Success      201          {object}  placeResponse
// @Failure      401          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/places [post]
func (h *PlaceHandler) Create(c echo.Context) error {
	image, err := formUpload(c, "image", h.maxUploadBytes)
	if err != nil {
		return err
	}

	place, err := h.service.CreatePlace(c.Request().Context(), ctxIdentity(c), ports.CreatePlaceInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Address:     c.FormValue("address"),
		Image:       image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, placeResponse{Place: place})
}

// Update handles PATCH /api/places/:pid.
//
// @Summary      Update title and description of a place
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        pid   path      string              true  "Place id"
// @Param        body  body      updatePlaceRequest  true  "New title and description"
// @Success      200   {object}  placeResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/places/{pid} [patch]
func (h *PlaceHandler) Update(c echo.Context) error {
	var req updatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	place, err := h.service.UpdatePlace(c.Request().Context(), ctxIdentity(c), c.Param("pid"), ports.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placeResponse{Place: place})
}

// Delete handles DELETE /api/places/:pid.
//
// @Summary      Delete a place
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Param        pid  path      string  true  "Place id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/places/{pid} [delete]
func (h *PlaceHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePlace(c.Request().Context(), ctxIdentity(c), c.Param("pid")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Deleted place."})
}
