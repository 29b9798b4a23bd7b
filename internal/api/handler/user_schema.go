package handler

import "github.com/sharedplaces/places-api/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}
