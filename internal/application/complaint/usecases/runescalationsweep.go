package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

const SweepLockKey = "civictrack:escalation-sweep"

type SweepResult struct {
	Scanned       int  `json:"scanned"`
	Reprioritized int  `json:"reprioritized"`
	Escalated     int  `json:"escalated"`
	Failed        int  `json:"failed"`
	Skipped       bool `json:"skipped"`
}

type SweepOptions struct {
	// MaxPerSecond caps complaint writes; zero or less disables throttling.
	MaxPerSecond float64
	LockTTL      time.Duration
}

// RunEscalationSweepUseCase re-evaluates every open complaint and escalates
// the ones pending longer than the configured duration. Escalated complaints
// are not candidates, so a second pass adds nothing.
type RunEscalationSweepUseCase struct {
	complaintRepo complaint.Repository
	reevaluator   *ReevaluatePriorityUseCase
	pending       time.Duration
	locker        Locker
	lockTTL       time.Duration
	limiter       *rate.Limiter
	notifier      *Notifier
	clock         biztime.Clock
	logger        logger.Interface
}

// NewRunEscalationSweepUseCase accepts a nil locker for single-instance deployments.
func NewRunEscalationSweepUseCase(
	complaintRepo complaint.Repository,
	priorityEngine PriorityComputer,
	locker Locker,
	notifier *Notifier,
	opts SweepOptions,
	clock biztime.Clock,
	logger logger.Interface,
) *RunEscalationSweepUseCase {
	limit := rate.Inf
	burst := 1
	if opts.MaxPerSecond > 0 {
		limit = rate.Limit(opts.MaxPerSecond)
		burst = int(math.Max(1, math.Ceil(opts.MaxPerSecond)))
	}
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}

	return &RunEscalationSweepUseCase{
		complaintRepo: complaintRepo,
		reevaluator:   NewReevaluatePriorityUseCase(complaintRepo, priorityEngine, clock, logger),
		pending:       priorityEngine.Rules().PendingDuration,
		locker:        locker,
		lockTTL:       lockTTL,
		limiter:       rate.NewLimiter(limit, burst),
		notifier:      notifier,
		clock:         clock,
		logger:        logger,
	}
}

func (uc *RunEscalationSweepUseCase) Execute(ctx context.Context) (*SweepResult, error) {
	uc.logger.Infow("executing escalation sweep use case")

	result := &SweepResult{}

	if uc.locker != nil {
		release, acquired, err := uc.locker.TryLock(ctx, SweepLockKey, uc.lockTTL)
		if err != nil {
			uc.logger.Errorw("failed to acquire sweep lock", "error", err)
			return nil, errors.WrapDependency("failed to acquire sweep lock", err)
		}
		if !acquired {
			uc.logger.Infow("escalation sweep already running elsewhere, skipping")
			result.Skipped = true
			return result, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				uc.logger.Warnw("failed to release sweep lock", "error", err)
			}
		}()
	}

	candidates, err := uc.complaintRepo.List(ctx, complaint.Filter{Statuses: vo.SweepCandidateStatuses})
	if err != nil {
		uc.logger.Errorw("failed to list sweep candidates", "error", err)
		return nil, errors.WrapDependency("failed to list open complaints", err)
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			uc.logger.Warnw("escalation sweep interrupted", "scanned", result.Scanned, "error", err)
			return result, errors.WrapDependency("escalation sweep interrupted", err)
		}
		result.Scanned++

		if err := uc.visit(ctx, c, result); err != nil {
			result.Failed++
			uc.logger.Errorw("failed to sweep complaint", "complaint_id", c.ID(), "error", err)
		}
	}

	uc.logger.Infow("escalation sweep completed",
		"scanned", result.Scanned,
		"reprioritized", result.Reprioritized,
		"escalated", result.Escalated,
		"failed", result.Failed)

	return result, nil
}

func (uc *RunEscalationSweepUseCase) visit(ctx context.Context, c *complaint.Complaint, result *SweepResult) error {
	if err := uc.limiter.Wait(ctx); err != nil {
		return err
	}

	now := uc.clock.Now()
	changed, err := uc.reevaluator.reevaluate(ctx, c, now)
	if err != nil {
		return err
	}
	if changed {
		result.Reprioritized++
	}

	age := c.Age(now)
	if age <= uc.pending || c.Status().IsEscalated() {
		return nil
	}

	note := fmt.Sprintf("Automatically escalated: pending for %d hours", int(math.Floor(age.Hours())))
	patch, err := c.Escalate(note, now)
	if err != nil {
		return domainError(err)
	}
	if err := uc.complaintRepo.Update(ctx, c.ID(), patch); err != nil {
		return errors.WrapDependency("failed to escalate complaint", err)
	}

	result.Escalated++
	uc.logger.Infow("complaint escalated",
		"complaint_id", c.ID(),
		"age_hours", int(math.Floor(age.Hours())),
		"priority", c.Priority())
	uc.notifier.Escalated(ctx, c, note)
	return nil
}
