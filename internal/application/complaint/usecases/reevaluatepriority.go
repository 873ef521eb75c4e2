package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type ReevaluatePriorityCommand struct {
	ComplaintID string
}

// ReevaluatePriorityUseCase reruns every priority rule, including age,
// against a stored complaint.
type ReevaluatePriorityUseCase struct {
	complaintRepo complaint.Repository
	priority      PriorityComputer
	clock         biztime.Clock
	logger        logger.Interface
}

func NewReevaluatePriorityUseCase(
	complaintRepo complaint.Repository,
	priorityEngine PriorityComputer,
	clock biztime.Clock,
	logger logger.Interface,
) *ReevaluatePriorityUseCase {
	return &ReevaluatePriorityUseCase{
		complaintRepo: complaintRepo,
		priority:      priorityEngine,
		clock:         clock,
		logger:        logger,
	}
}

func (uc *ReevaluatePriorityUseCase) Execute(ctx context.Context, cmd ReevaluatePriorityCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing reevaluate priority use case", "complaint_id", cmd.ComplaintID)

	if strings.TrimSpace(cmd.ComplaintID) == "" {
		return nil, errors.NewValidationError("complaint ID is required")
	}

	c, err := uc.complaintRepo.Get(ctx, cmd.ComplaintID)
	if err != nil {
		uc.logger.Errorw("failed to get complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, errors.WrapDependency("failed to load complaint", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("complaint not found", cmd.ComplaintID)
	}

	if _, err := uc.reevaluate(ctx, c, uc.clock.Now()); err != nil {
		return nil, err
	}

	return dto.ToComplaintDTO(c), nil
}

// reevaluate recomputes and stores the priority of c. changed is false when
// the result matches, or is lower than, what is already stored.
func (uc *ReevaluatePriorityUseCase) reevaluate(ctx context.Context, c *complaint.Complaint, now time.Time) (bool, error) {
	before := c.Priority()
	assessment := uc.priority.Compute(ctx, priority.SubjectFromComplaint(c), now)

	patch, changed := c.ApplyPriority(assessment.Priority, assessment.Reasons, now)
	if !changed {
		return false, nil
	}

	if err := uc.complaintRepo.Update(ctx, c.ID(), patch); err != nil {
		uc.logger.Errorw("failed to store priority", "complaint_id", c.ID(), "error", err)
		return false, errors.WrapDependency("failed to update priority", err)
	}

	uc.logger.Infow("complaint priority re-evaluated",
		"complaint_id", c.ID(),
		"old_priority", before,
		"new_priority", c.Priority(),
		"reasons", c.PriorityReasons())
	return true, nil
}
