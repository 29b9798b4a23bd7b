package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sharedplaces/places-api/internal/api/handler"
	"github.com/sharedplaces/places-api/internal/api/middleware"
	"github.com/sharedplaces/places-api/internal/core/ports"

	_ "github.com/sharedplaces/places-api/docs"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Places   ports.PlaceService
	Auth     ports.AuthService
	Users    ports.UserService
	Verifier ports.TokenVerifier
	Health   map[string]handler.CheckFunc

	UploadDir      string
	MaxUploadBytes int64
	LoginRateLimit int

	// Metrics overrides the default Prometheus registry, mainly for tests.
	Metrics *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin, "X-Requested-With", echo.HeaderContentType,
			echo.HeaderAccept, echo.HeaderAuthorization,
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "places_api",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	placeHandler := handler.NewPlaceHandler(deps.Places, deps.MaxUploadBytes)
	userHandler := handler.NewUserHandler(deps.Auth, deps.Users, deps.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(deps.Health)
	auth := middleware.Auth(deps.Verifier)

	// --- Places ---
	places := e.Group("/api/places")
	places.GET("/user/:uid", placeHandler.ListByUser)
	places.GET("/:pid", placeHandler.Get)
	places.POST("", placeHandler.Create, auth)
	places.PATCH("/:pid", placeHandler.Update, auth)
	places.DELETE("/:pid", placeHandler.Delete, auth)

	// --- Users ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List)
	users.POST("/signup", userHandler.Signup)
	users.POST("/login", userHandler.Login, middleware.LoginRateLimit(deps.LoginRateLimit))

	// --- Uploaded images ---
	if deps.UploadDir != "" {
		e.Static("/uploads/images", deps.UploadDir)
	}

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
