package usecases

import (
	"context"
	"strings"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/sanitize"
)

type AssignComplaintCommand struct {
	ComplaintID  string
	DepartmentID string
	OfficerID    string
	Note         string
	AssignedBy   string
}

// AssignComplaintUseCase is the admin override: it bypasses officer selection
// but persists the assignment exactly like automatic routing does.
type AssignComplaintUseCase struct {
	complaintRepo complaint.Repository
	assigner      Assigner
	notifier      *Notifier
	sanitizer     *sanitize.Sanitizer
	clock         biztime.Clock
	logger        logger.Interface
}

func NewAssignComplaintUseCase(
	complaintRepo complaint.Repository,
	assigner Assigner,
	notifier *Notifier,
	sanitizer *sanitize.Sanitizer,
	clock biztime.Clock,
	logger logger.Interface,
) *AssignComplaintUseCase {
	return &AssignComplaintUseCase{
		complaintRepo: complaintRepo,
		assigner:      assigner,
		notifier:      notifier,
		sanitizer:     sanitizer,
		clock:         clock,
		logger:        logger,
	}
}

func (uc *AssignComplaintUseCase) Execute(ctx context.Context, cmd AssignComplaintCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing assign complaint use case",
		"complaint_id", cmd.ComplaintID,
		"department_id", cmd.DepartmentID,
		"officer_id", cmd.OfficerID,
		"assigned_by", cmd.AssignedBy)

	if err := uc.validateCommand(&cmd); err != nil {
		uc.logger.Warnw("invalid assign complaint command", "error", err)
		return nil, err
	}

	c, err := uc.complaintRepo.Get(ctx, cmd.ComplaintID)
	if err != nil {
		uc.logger.Errorw("failed to get complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, errors.WrapDependency("failed to load complaint", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("complaint not found", cmd.ComplaintID)
	}
	previous := c.Status()

	if _, err := uc.assigner.AssignManually(ctx, c, cmd.DepartmentID, cmd.OfficerID, cmd.Note, uc.clock.Now()); err != nil {
		uc.logger.Errorw("failed to assign complaint", "complaint_id", c.ID(), "error", err)
		return nil, err
	}

	uc.notifier.Assigned(ctx, c)
	uc.logger.Infow("complaint assigned by admin",
		"complaint_id", c.ID(),
		"old_status", previous,
		"officer_id", cmd.OfficerID)

	return dto.ToComplaintDTO(c), nil
}

func (uc *AssignComplaintUseCase) validateCommand(cmd *AssignComplaintCommand) error {
	if strings.TrimSpace(cmd.ComplaintID) == "" {
		return errors.NewValidationError("complaint ID is required")
	}
	if strings.TrimSpace(cmd.DepartmentID) == "" {
		return errors.NewValidationError("department ID is required")
	}
	if strings.TrimSpace(cmd.OfficerID) == "" {
		return errors.NewValidationError("officer ID is required")
	}
	cmd.Note = uc.sanitizer.Text(cmd.Note)
	return nil
}
