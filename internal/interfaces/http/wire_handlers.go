package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civictrack/civictrack/internal/infrastructure/permission"
	"github.com/civictrack/civictrack/internal/infrastructure/scheduler"
	"github.com/civictrack/civictrack/internal/interfaces/http/handlers"
	complainthandlers "github.com/civictrack/civictrack/internal/interfaces/http/handlers/complaint"
	"github.com/civictrack/civictrack/internal/interfaces/http/middleware"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// redisPinger adapts *redis.Client to handlers.Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (c *Container) initHandlers() error {
	log := c.log
	ucs := c.ucs

	checks := map[string]handlers.Pinger{}
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	checks["database"] = sqlDB
	if c.redis != nil {
		checks["redis"] = redisPinger{client: c.redis}
	}

	maxUpload := int64(c.cfg.Server.MaxUploadMB) << 20

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks, log),
		complaintHandler: complainthandlers.NewComplaintHandler(
			ucs.createComplaint,
			ucs.updateStatus,
			ucs.submitFeedback,
			ucs.getComplaint,
			ucs.listComplaints,
			ucs.nearbyComplaints,
			maxUpload,
			log,
		),
		adminHandler: complainthandlers.NewAdminHandler(
			ucs.listComplaints,
			ucs.complaintStats,
			ucs.assignComplaint,
			ucs.reevaluatePriority,
			ucs.escalationSweep,
			log,
		),
	}

	enforcer, err := permission.NewEnforcer(logger.WithComponent("permission"))
	if err != nil {
		return err
	}
	c.actorMiddleware = middleware.NewActorMiddleware(log)
	c.authorizationMiddleware = middleware.NewAuthorizationMiddleware(enforcer, log)

	if c.redis != nil && c.cfg.Server.SubmitRateLimit > 0 {
		c.submitLimiter = middleware.NewRateLimiter(c.redis, c.cfg.Server.SubmitRateLimit, time.Minute, log)
	}

	return nil
}

func (c *Container) initScheduler() error {
	esc := c.cfg.Escalation
	if !esc.SchedulerEnabled {
		c.log.Infow("escalation scheduler disabled")
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(logger.WithComponent("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := manager.RegisterEscalationJob(c.ucs.escalationSweep, scheduler.EscalationJobOptions{
		Interval:     esc.Interval(),
		Timeout:      esc.LockTTL(),
		RunOnStartup: esc.RunOnStartup,
	}); err != nil {
		return fmt.Errorf("failed to register escalation job: %w", err)
	}

	c.schedulerManager = manager
	return nil
}
