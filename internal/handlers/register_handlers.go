package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/middleware"
	"github.com/edmbank/edmbank_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public routes: registration, login and the pre-submit availability
	// check. Rate limited, since these are the unauthenticated surface.
	public := r.Group("/", middleware.RateLimit(limiterInstance))
	registerAuthRoutes(public, services.Auth, services.Account)
	registerAvailabilityRoutes(public, services.Account)

	setupAPIV1Routes(r, cfg, services, limiterInstance)
}

// setupAPIV1Routes configures the authenticated /api/v1 group.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Account)
	registerSupportRoutes(v1, services.Support)
	registerEventRoutes(v1, services.Watcher)

	// Transfers additionally go through the rate limiter.
	limited := v1.Group("/", middleware.RateLimit(limiterInstance))
	registerTransferRoutes(limited, services.Transfer)
}
