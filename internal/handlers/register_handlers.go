package handlers

import (
	"net/http"

	"github.com/bluestar-trading/erp_backend/cmd/docs"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/bluestar-trading/erp_backend/internal/platform/config"
	"github.com/bluestar-trading/erp_backend/internal/tracking"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the shared runtime pieces the handlers need besides services.
// Nil limiters disable rate limiting; a nil Posthog client disables analytics.
type RouteDeps struct {
	Registry     *tracking.Registry
	Policy       middleware.Policy
	Posthog      *utils.PosthogClientWrapper
	LoginLimiter *limiter.Limiter
	APILimiter   *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	if deps.Policy == nil {
		deps.Policy = middleware.DefaultPolicy()
	}
	if deps.Registry == nil {
		deps.Registry = tracking.NewRegistry(cfg.TrackingBufferSize)
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, services.User, deps.LoginLimiter)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}
	if deps.APILimiter != nil {
		chain = append(chain, middleware.RateLimit(deps.APILimiter))
	}
	chain = append(chain, middleware.PosthogMiddleware(deps.Posthog))
	v1 := r.Group("/api/v1", chain...)

	registerVoucherRoutes(v1, service.Voucher, deps.Policy, deps.Posthog)
	registerPartyRoutes(v1, service.Party, service.Transaction, deps.Policy)
	registerItemRoutes(v1, service.Inventory, deps.Policy)
	registerTransactionRoutes(v1, service.Transaction)
	registerTripRoutes(v1, service.Trip, deps.Registry, deps.Policy)
	registerNotificationRoutes(v1, service.Notification)
	registerReportingRoutes(v1, service.Reporting)
	registerUserRoutes(v1, service.User, deps.Policy)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
