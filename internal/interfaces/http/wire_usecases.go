package http

import (
	"fmt"

	"github.com/civictrack/civictrack/internal/application/complaint/assignment"
	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/id"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/sanitize"
)

func (c *Container) initUseCases(infra *infrastructure) error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	ids, err := id.NewGenerator(cfg.ID.NodeID)
	if err != nil {
		return fmt.Errorf("failed to create id generator: %w", err)
	}

	priorityEngine := priority.NewEngine(
		repos.complaintRepo,
		c.reference.SensitiveLocations,
		priority.Rules{
			SensitiveRadiusMeters: cfg.Priority.SensitiveRadiusMeters,
			ClusterRadiusMeters:   cfg.Priority.ClusterRadiusMeters,
			ClusterThreshold:      cfg.Priority.ClusterThreshold,
			PendingDuration:       cfg.Priority.PendingDuration(),
		},
		logger.WithComponent("priority"),
	)
	assignmentEngine := assignment.NewEngine(
		c.reference.Directory,
		repos.officerRepo,
		repos.complaintRepo,
		repos.transactor,
		logger.WithComponent("assignment"),
	)

	notifier := usecases.NewNotifier(infra.sink, log)
	sanitizer := sanitize.New()
	clock := biztime.SystemClock{}

	c.ucs = &allUseCases{
		createComplaint: usecases.NewCreateComplaintUseCase(
			repos.complaintRepo, priorityEngine, assignmentEngine, infra.media, ids, notifier, sanitizer, clock, log,
		),
		updateStatus: usecases.NewUpdateStatusUseCase(
			repos.complaintRepo, repos.officerRepo, repos.transactor, infra.media, notifier, sanitizer, clock, log,
		),
		assignComplaint: usecases.NewAssignComplaintUseCase(
			repos.complaintRepo, assignmentEngine, notifier, sanitizer, clock, log,
		),
		reevaluatePriority: usecases.NewReevaluatePriorityUseCase(
			repos.complaintRepo, priorityEngine, clock, log,
		),
		escalationSweep: usecases.NewRunEscalationSweepUseCase(
			repos.complaintRepo,
			priorityEngine,
			infra.locker,
			notifier,
			usecases.SweepOptions{
				MaxPerSecond: cfg.Escalation.MaxPerSecond,
				LockTTL:      cfg.Escalation.LockTTL(),
			},
			clock,
			logger.WithComponent("escalation"),
		),
		submitFeedback: usecases.NewSubmitFeedbackUseCase(repos.complaintRepo, sanitizer, clock, log),
		getComplaint:   usecases.NewGetComplaintUseCase(repos.complaintRepo, log),
		listComplaints: usecases.NewListComplaintsUseCase(repos.complaintRepo, log),
		nearbyComplaints: usecases.NewListNearbyComplaintsUseCase(
			repos.complaintRepo, cfg.Nearby.RadiusMeters, cfg.Nearby.MaxRadiusMeters, log,
		),
		complaintStats: usecases.NewGetComplaintStatsUseCase(repos.complaintRepo, log),
	}

	return nil
}
