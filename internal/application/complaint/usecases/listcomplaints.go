package usecases

import (
	"context"
	"strings"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// ListScope selects which complaints a listing covers.
type ListScope string

const (
	ScopeMine    ListScope = "mine"
	ScopeOfficer ListScope = "officer"
	ScopeAll     ListScope = "all"
)

// ListComplaintsQuery filters only apply to ScopeAll.
type ListComplaintsQuery struct {
	Actor    authorization.Actor
	Scope    ListScope
	Status   string
	Category string
	Priority string
}

type ListComplaintsUseCase struct {
	complaintRepo complaint.Repository
	logger        logger.Interface
}

func NewListComplaintsUseCase(complaintRepo complaint.Repository, logger logger.Interface) *ListComplaintsUseCase {
	return &ListComplaintsUseCase{
		complaintRepo: complaintRepo,
		logger:        logger,
	}
}

func (uc *ListComplaintsUseCase) Execute(ctx context.Context, query ListComplaintsQuery) ([]*dto.ComplaintDTO, error) {
	if query.Actor.ID == "" {
		return nil, errors.NewValidationError("actor is required")
	}

	var (
		list []*complaint.Complaint
		err  error
	)

	switch query.Scope {
	case ScopeMine:
		list, err = uc.complaintRepo.ListByUser(ctx, query.Actor.ID)
	case ScopeOfficer:
		if !query.Actor.Role.IsOfficer() && !query.Actor.IsAdmin() {
			return nil, errors.NewForbiddenError("only officers have an assignment queue")
		}
		list, err = uc.complaintRepo.ListByOfficer(ctx, query.Actor.ID)
	case ScopeAll:
		if !query.Actor.IsAdmin() {
			return nil, errors.NewForbiddenError("only admins may list all complaints")
		}
		filter, ferr := buildFilter(query)
		if ferr != nil {
			return nil, ferr
		}
		list, err = uc.complaintRepo.List(ctx, filter)
	default:
		return nil, errors.NewValidationError("invalid list scope", string(query.Scope))
	}

	if err != nil {
		uc.logger.Errorw("failed to list complaints",
			"scope", query.Scope,
			"actor_id", query.Actor.ID,
			"error", err)
		return nil, errors.WrapDependency("failed to list complaints", err)
	}

	return dto.ToComplaintDTOs(list), nil
}

func buildFilter(query ListComplaintsQuery) (complaint.Filter, error) {
	var filter complaint.Filter

	if s := strings.TrimSpace(query.Status); s != "" {
		status, err := vo.NewStatus(s)
		if err != nil {
			return filter, errors.NewValidationError("invalid status filter", s)
		}
		filter.Status = &status
	}
	if s := strings.TrimSpace(query.Category); s != "" {
		category, err := vo.NewCategory(s)
		if err != nil {
			return filter, errors.NewValidationError("invalid category filter", s)
		}
		filter.Category = &category
	}
	if s := strings.TrimSpace(query.Priority); s != "" {
		priority, err := vo.NewPriority(s)
		if err != nil {
			return filter, errors.NewValidationError("invalid priority filter", s)
		}
		filter.Priority = &priority
	}

	return filter, nil
}
