package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/infrastructure/config"
	"github.com/civictrack/civictrack/internal/infrastructure/directory"
	"github.com/civictrack/civictrack/internal/infrastructure/scheduler"
	"github.com/civictrack/civictrack/internal/interfaces/http/handlers"
	complainthandlers "github.com/civictrack/civictrack/internal/interfaces/http/handlers/complaint"
	"github.com/civictrack/civictrack/internal/interfaces/http/middleware"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// Container holds the infrastructure components, use cases, handlers and
// background services, wires them together and tears them down on Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories and reference data
	repos     *repositories
	reference *directory.ReferenceData

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	actorMiddleware         *middleware.ActorMiddleware
	authorizationMiddleware *middleware.AuthorizationMiddleware
	submitLimiter           *middleware.RateLimiter

	// Background services
	schedulerManager *scheduler.SchedulerManager
}

type allUseCases struct {
	createComplaint    *usecases.CreateComplaintUseCase
	updateStatus       *usecases.UpdateStatusUseCase
	assignComplaint    *usecases.AssignComplaintUseCase
	reevaluatePriority *usecases.ReevaluatePriorityUseCase
	escalationSweep    *usecases.RunEscalationSweepUseCase
	submitFeedback     *usecases.SubmitFeedbackUseCase
	getComplaint       *usecases.GetComplaintUseCase
	listComplaints     *usecases.ListComplaintsUseCase
	nearbyComplaints   *usecases.ListNearbyComplaintsUseCase
	complaintStats     *usecases.GetComplaintStatsUseCase
}

type allHandlers struct {
	healthHandler    *handlers.HealthHandler
	complaintHandler *complainthandlers.ComplaintHandler
	adminHandler     *complainthandlers.AdminHandler
}

// NewContainer creates a Container with all dependencies wired together.
// Redis is optional: without it notifications stay in-process, the sweep
// lock is local and submissions are not rate limited.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, reference data, media
	infra, err := c.initInfrastructure(ctx)
	if err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 2: Engines and use cases
	if err := c.initUseCases(infra); err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 3: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		c.closeRedis()
		return nil, err
	}

	// Section 4: Background jobs
	if err := c.initScheduler(); err != nil {
		c.closeRedis()
		return nil, err
	}

	return c, nil
}

// EscalationSweep exposes the sweep for callers outside the HTTP server,
// such as the one-shot CLI command.
func (c *Container) EscalationSweep() *usecases.RunEscalationSweepUseCase {
	return c.ucs.escalationSweep
}

// StartScheduler starts the periodic escalation sweep when it is enabled.
func (c *Container) StartScheduler() {
	if c.schedulerManager == nil {
		return
	}
	c.schedulerManager.Start()
}

// Shutdown stops background jobs and releases the Redis connection. The
// database handle belongs to the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	c.closeRedis()
}

func (c *Container) closeRedis() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.log.Warnw("failed to close redis client", "error", err)
	}
	c.redis = nil
}
