package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/infrastructure/config"
	"github.com/civictrack/civictrack/internal/interfaces/http/middleware"
	"github.com/civictrack/civictrack/internal/interfaces/http/routes"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// Router represents the HTTP router configuration.
// It wraps a Container that holds all wired dependencies.
type Router struct {
	c *Container
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(ctx, db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{c: c}, nil
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes(cfg *config.Config) {
	engine := r.c.engine

	engine.Use(middleware.Logger(r.c.log))
	engine.Use(middleware.Recovery(r.c.log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/health", r.c.hdlrs.healthHandler.HealthCheck)

	// Locally stored photos are served from the public media prefix.
	if (cfg.Media.Driver == "" || cfg.Media.Driver == "local") && strings.HasPrefix(cfg.Media.BaseURL, "/") {
		engine.Static(cfg.Media.BaseURL, cfg.Media.LocalDir)
	}

	routes.SetupComplaintRoutes(engine, &routes.ComplaintRouteConfig{
		ComplaintHandler:        r.c.hdlrs.complaintHandler,
		AdminHandler:            r.c.hdlrs.adminHandler,
		ActorMiddleware:         r.c.actorMiddleware,
		AuthorizationMiddleware: r.c.authorizationMiddleware,
		SubmitLimiter:           r.c.submitLimiter,
	})
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.c.engine
}

// StartScheduler starts background jobs.
func (r *Router) StartScheduler() {
	r.c.StartScheduler()
}

// EscalationSweep returns the wired sweep use case.
func (r *Router) EscalationSweep() *usecases.RunEscalationSweepUseCase {
	return r.c.EscalationSweep()
}

// Shutdown gracefully stops background services.
func (r *Router) Shutdown() {
	r.c.Shutdown()
}
