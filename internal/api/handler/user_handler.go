package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharedplaces/places-api/internal/core/ports"
)

// UserHandler serves signup, login and the user listing.
type UserHandler struct {
	auth           ports.AuthService
	users          ports.UserService
	maxUploadBytes int64
}

func NewUserHandler(auth ports.AuthService, users ports.UserService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{auth: auth, users: users, maxUploadBytes: maxUploadBytes}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Signup creates a new account.
//
// @Summary      Sign up
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        name      formData  string  true  "Display name"
// @Param        email     formData  string  true  "Email"
// @Param        password  formData  string  true  "Password (min 6 characters)"
// @Param        image     formData  file    true  "PNG or JPEG avatar"
// @Success      201       {object}  authResponse
// @Failure      422       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/users/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	image, err := formUpload(c, "image", h.maxUploadBytes)
	if err != nil {
		return err
	}

	res, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Image:    image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{UserID: res.UserID, Email: res.Email, Token: res.Token})
}

// Login authenticates a user and returns an identity token.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{UserID: res.UserID, Email: res.Email, Token: res.Token})
}
