package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/streck/storefront-api/internal/api/handler"
	"github.com/streck/storefront-api/internal/api/middleware"
	"github.com/streck/storefront-api/internal/core/ports"
	"github.com/streck/storefront-api/internal/infrastructure/http/handlers"
)

// uploadBodyLimit bounds a whole multipart request; per-file limits are
// enforced by the upload service.
const uploadBodyLimit = "50M"

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Log          zerolog.Logger
	Gate         middleware.GateConfig
	Auth         ports.AuthService
	ProductTypes ports.ProductTypeService
	Uploads      ports.UploadService
	Readiness    *handlers.HealthDependenciesHandler

	// Registry receives the HTTP request metrics. Nil selects the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.SecurityHeaders())
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))
	e.Use(middleware.Gate(deps.Gate))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productTypeHandler := handler.NewProductTypeHandler(deps.ProductTypes)
	uploadHandler := handler.NewUploadHandler(deps.Uploads)

	// --- Public API ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.GET("/product-types", productTypeHandler.List)
	apiGroup.POST("/product-types", productTypeHandler.Create)
	apiGroup.POST("/upload", uploadHandler.Upload, echomiddleware.BodyLimit(uploadBodyLimit))

	// --- Gated admin surface ---
	adminGroup := e.Group(strings.TrimSuffix(deps.Gate.Prefix, "/"))
	adminGroup.GET("/session", authHandler.Session)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness) // readiness – are dependencies up?
	}

	// --- Operations ---
	if deps.Registry != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Registry}))
	} else {
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "storefront",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || p == "/health" || p == "/health/ready"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}
