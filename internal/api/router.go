package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sweetmart/sweetshop/docs"
	"github.com/sweetmart/sweetshop/internal/api/handler"
	"github.com/sweetmart/sweetshop/internal/api/middleware"
	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Log          zerolog.Logger
	Gate         ports.AuthGate
	Auth         ports.AuthService
	Sweets       ports.SweetService
	Stock        ports.StockEngine
	AuthLimiter  middleware.RateLimiter
	HealthChecks map[string]handler.Checker
	// TrustedProxies are the only peers whose X-Forwarded-For header is used
	// to find the client IP. Empty means the TCP peer is the client.
	TrustedProxies []*net.IPNet
	// MetricsRegistry receives the HTTP request metrics and backs /metrics.
	// Nil uses the prometheus default registry.
	MetricsRegistry *prometheus.Registry
}

func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipnet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipnet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// Outside the request logger so the status it records is the one the
	// error handler already wrote.
	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	metricsHandler := echoprometheus.NewHandler()
	if d.MetricsRegistry != nil {
		promCfg.Registerer = d.MetricsRegistry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.MetricsRegistry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	e.Use(middleware.RequestLogger(d.Log))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(d.AuthLimiter, "auth", d.Log))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Catalog and stock ---
	sweetHandler := handler.NewSweetHandler(d.Sweets, d.Stock)
	authenticated := middleware.Authenticate(d.Gate)
	catalogWriter := middleware.Authorize(d.Gate, domain.CatalogWriters)

	sweets := e.Group("/sweets")
	sweets.GET("", sweetHandler.List)
	sweets.GET("/:id", sweetHandler.Get)
	sweets.POST("", sweetHandler.Create, authenticated, catalogWriter)
	sweets.PUT("/:id", sweetHandler.Update, authenticated, catalogWriter)
	sweets.DELETE("/:id", sweetHandler.Delete, authenticated, catalogWriter)
	sweets.POST("/:id/purchase", sweetHandler.Purchase, authenticated, middleware.Authorize(d.Gate, domain.Purchasers))
	sweets.POST("/:id/restock", sweetHandler.Restock, authenticated, middleware.Authorize(d.Gate, domain.Restockers))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
