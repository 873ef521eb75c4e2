package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/sanitize"
)

type UpdateStatusCommand struct {
	ComplaintID     string
	Actor           authorization.Actor
	NewStatus       string
	Note            string
	ResolutionPhoto *Photo
}

type UpdateStatusUseCase struct {
	complaintRepo complaint.Repository
	officerRepo   department.OfficerRepository
	tx            Transactor
	media         MediaStore
	notifier      *Notifier
	sanitizer     *sanitize.Sanitizer
	clock         biztime.Clock
	logger        logger.Interface
}

func NewUpdateStatusUseCase(
	complaintRepo complaint.Repository,
	officerRepo department.OfficerRepository,
	tx Transactor,
	media MediaStore,
	notifier *Notifier,
	sanitizer *sanitize.Sanitizer,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		complaintRepo: complaintRepo,
		officerRepo:   officerRepo,
		tx:            tx,
		media:         media,
		notifier:      notifier,
		sanitizer:     sanitizer,
		clock:         clock,
		logger:        logger,
	}
}

// Execute applies an officer's status change. Every check runs before the
// resolution photo is stored, and the photo is stored before the status
// write; if storing it fails nothing else is written.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, cmd UpdateStatusCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing update complaint status use case",
		"complaint_id", cmd.ComplaintID,
		"actor_id", cmd.Actor.ID,
		"new_status", cmd.NewStatus)

	next, err := uc.validateCommand(&cmd)
	if err != nil {
		uc.logger.Warnw("invalid update status command", "error", err)
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

	if !cmd.Actor.IsAdmin() && !c.AssignedOfficerIs(cmd.Actor.ID) {
		uc.logger.Warnw("officer is not assigned to complaint",
			"complaint_id", c.ID(),
			"actor_id", cmd.Actor.ID)
		return nil, errors.NewForbiddenError("complaint is not assigned to you")
	}

	previous := c.Status()
	if !previous.CanTransitionTo(next) {
		uc.logger.Warnw("rejected status transition",
			"complaint_id", c.ID(),
			"from", previous,
			"to", next)
		return nil, errors.NewInvalidTransitionError("status change not allowed", previous.String()+" -> "+next.String())
	}

	var resolutionRef *string
	if next.IsResolved() && cmd.ResolutionPhoto != nil {
		ref, err := uc.media.Store(ctx, mediaKey(c.ID(), "resolution", cmd.ResolutionPhoto.Filename), cmd.ResolutionPhoto.Data)
		if err != nil {
			uc.logger.Errorw("failed to store resolution photo", "complaint_id", c.ID(), "error", err)
			return nil, errors.WrapDependency("failed to store resolution photo", err)
		}
		resolutionRef = &ref
	}

	patch, err := c.UpdateStatus(next, cmd.Note, resolutionRef, uc.clock.Now())
	if err != nil {
		return nil, domainError(err)
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.complaintRepo.Update(txCtx, c.ID(), patch); err != nil {
			return err
		}
		if next.IsResolved() && c.OfficerID() != nil {
			return uc.officerRepo.AdjustLoad(txCtx, *c.OfficerID(), -1)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to persist status update", "complaint_id", c.ID(), "error", err)
		return nil, errors.WrapDependency("failed to update complaint", err)
	}

	uc.logger.Infow("complaint status updated",
		"complaint_id", c.ID(),
		"old_status", previous,
		"new_status", c.Status())

	if next.IsEscalated() {
		uc.notifier.Escalated(ctx, c, patch.Entry.Note)
	}
	uc.notifier.StatusChanged(ctx, c, previous)

	return dto.ToComplaintDTO(c), nil
}

func (uc *UpdateStatusUseCase) validateCommand(cmd *UpdateStatusCommand) (vo.Status, error) {
	if strings.TrimSpace(cmd.ComplaintID) == "" {
		return "", errors.NewValidationError("complaint ID is required")
	}
	if cmd.Actor.ID == "" {
		return "", errors.NewValidationError("actor is required")
	}
	cmd.Note = uc.sanitizer.Text(cmd.Note)
	if cmd.Note == "" {
		return "", errors.NewValidationError("note is required")
	}
	if err := complaint.ValidateNote(cmd.Note); err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	next, err := vo.NewStatus(strings.TrimSpace(cmd.NewStatus))
	if err != nil {
		return "", errors.NewValidationError("invalid status", cmd.NewStatus)
	}
	if !next.IsOfficerSettable() {
		return "", errors.NewValidationError("status cannot be set by an officer", cmd.NewStatus)
	}
	if cmd.ResolutionPhoto != nil && len(cmd.ResolutionPhoto.Data) == 0 {
		return "", errors.NewValidationError("resolution photo is empty")
	}
	return next, nil
}

// domainError maps aggregate errors onto the application taxonomy.
func domainError(err error) error {
	switch {
	case stderrors.Is(err, complaint.ErrInvalidTransition):
		return errors.NewInvalidTransitionError(err.Error())
	case stderrors.Is(err, complaint.ErrFeedbackNotAllowed):
		return errors.NewForbiddenError(err.Error())
	default:
		return errors.NewValidationError(err.Error())
	}
}
