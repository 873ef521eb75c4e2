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

type SubmitFeedbackCommand struct {
	ComplaintID string
	UserID      string
	Rating      int
	Comment     string
}

type SubmitFeedbackUseCase struct {
	complaintRepo complaint.Repository
	sanitizer     *sanitize.Sanitizer
	clock         biztime.Clock
	logger        logger.Interface
}

func NewSubmitFeedbackUseCase(
	complaintRepo complaint.Repository,
	sanitizer *sanitize.Sanitizer,
	clock biztime.Clock,
	logger logger.Interface,
) *SubmitFeedbackUseCase {
	return &SubmitFeedbackUseCase{
		complaintRepo: complaintRepo,
		sanitizer:     sanitizer,
		clock:         clock,
		logger:        logger,
	}
}

func (uc *SubmitFeedbackUseCase) Execute(ctx context.Context, cmd SubmitFeedbackCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing submit feedback use case",
		"complaint_id", cmd.ComplaintID,
		"user_id", cmd.UserID,
		"rating", cmd.Rating)

	if strings.TrimSpace(cmd.ComplaintID) == "" {
		return nil, errors.NewValidationError("complaint ID is required")
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, errors.NewValidationError("user ID is required")
	}
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, errors.NewValidationError("rating must be between 1 and 5")
	}
	cmd.Comment = uc.sanitizer.Text(cmd.Comment)

	c, err := uc.complaintRepo.Get(ctx, cmd.ComplaintID)
	if err != nil {
		uc.logger.Errorw("failed to get complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, errors.WrapDependency("failed to load complaint", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("complaint not found", cmd.ComplaintID)
	}

	patch, err := c.SubmitFeedback(cmd.UserID, cmd.Rating, cmd.Comment, uc.clock.Now())
	if err != nil {
		uc.logger.Warnw("feedback rejected", "complaint_id", c.ID(), "user_id", cmd.UserID, "error", err)
		return nil, domainError(err)
	}

	if err := uc.complaintRepo.Update(ctx, c.ID(), patch); err != nil {
		uc.logger.Errorw("failed to save feedback", "complaint_id", c.ID(), "error", err)
		return nil, errors.WrapDependency("failed to save feedback", err)
	}

	uc.logger.Infow("feedback recorded", "complaint_id", c.ID(), "rating", cmd.Rating)
	return dto.ToComplaintDTO(c), nil
}
