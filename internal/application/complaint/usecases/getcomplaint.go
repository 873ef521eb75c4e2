package usecases

import (
	"context"
	"strings"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type GetComplaintQuery struct {
	ComplaintID string
	Actor       authorization.Actor
}

type GetComplaintUseCase struct {
	complaintRepo complaint.Repository
	logger        logger.Interface
}

func NewGetComplaintUseCase(complaintRepo complaint.Repository, logger logger.Interface) *GetComplaintUseCase {
	return &GetComplaintUseCase{
		complaintRepo: complaintRepo,
		logger:        logger,
	}
}

func (uc *GetComplaintUseCase) Execute(ctx context.Context, query GetComplaintQuery) (*dto.ComplaintDTO, error) {
	if strings.TrimSpace(query.ComplaintID) == "" {
		return nil, errors.NewValidationError("complaint ID is required")
	}

	c, err := uc.complaintRepo.Get(ctx, query.ComplaintID)
	if err != nil {
		uc.logger.Errorw("failed to get complaint", "complaint_id", query.ComplaintID, "error", err)
		return nil, errors.WrapDependency("failed to load complaint", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("complaint not found", query.ComplaintID)
	}

	officerID := ""
	if c.OfficerID() != nil {
		officerID = *c.OfficerID()
	}
	// Hidden complaints look missing so their IDs reveal nothing.
	if !query.Actor.CanView(c.UserID(), officerID) {
		uc.logger.Warnw("complaint access denied",
			"complaint_id", c.ID(),
			"actor_id", query.Actor.ID,
			"role", query.Actor.Role)
		return nil, errors.NewNotFoundError("complaint not found", query.ComplaintID)
	}

	return dto.ToComplaintDTO(c), nil
}
