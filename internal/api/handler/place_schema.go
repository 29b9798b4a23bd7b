package handler

import "github.com/sharedplaces/places-api/internal/core/domain"

type updatePlaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type placeResponse struct {
	Place *domain.Place `json:"place"`
}

type placesResponse struct {
	Places []*domain.Place `json:"places"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
