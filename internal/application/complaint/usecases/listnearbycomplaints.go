package usecases

import (
	"context"
	"math"
	"sort"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// ListNearbyComplaintsQuery centres the search on Lat/Lng. A zero
// RadiusMeters selects the configured default.
type ListNearbyComplaintsQuery struct {
	Actor        authorization.Actor
	Lat          float64
	Lng          float64
	RadiusMeters float64
}

type ListNearbyComplaintsUseCase struct {
	complaintRepo complaint.Repository
	radius        float64
	maxRadius     float64
	logger        logger.Interface
}

// NewListNearbyComplaintsUseCase caps caller supplied radii at maxRadius.
// A non-positive maxRadius leaves them uncapped.
func NewListNearbyComplaintsUseCase(complaintRepo complaint.Repository, radius, maxRadius float64, logger logger.Interface) *ListNearbyComplaintsUseCase {
	return &ListNearbyComplaintsUseCase{
		complaintRepo: complaintRepo,
		radius:        radius,
		maxRadius:     maxRadius,
		logger:        logger,
	}
}

// Execute returns every located complaint within the radius, nearest first
// and newest first at equal distance. Reporter identities are only shown to the reporter and to admins.
func (uc *ListNearbyComplaintsUseCase) Execute(ctx context.Context, query ListNearbyComplaintsQuery) ([]*dto.NearbyComplaintDTO, error) {
	if query.Actor.ID == "" {
		return nil, errors.NewValidationError("actor is required")
	}
	// Written so that NaN fails too.
	if !(query.Lat >= -90 && query.Lat <= 90 && query.Lng >= -180 && query.Lng <= 180) {
		return nil, errors.NewValidationError("invalid coordinates")
	}

	radius := query.RadiusMeters
	switch {
	case radius < 0 || math.IsNaN(radius):
		return nil, errors.NewValidationError("radius must be positive")
	case radius == 0:
		radius = uc.radius
	case uc.maxRadius > 0 && radius > uc.maxRadius:
		return nil, errors.NewValidationError("radius exceeds the allowed maximum")
	}

	centre := geo.Point{Lat: query.Lat, Lng: query.Lng}
	bounds := geo.BoundsAround(centre, radius)
	list, err := uc.complaintRepo.List(ctx, complaint.Filter{Within: &bounds})
	if err != nil {
		uc.logger.Errorw("failed to list nearby complaints",
			"actor_id", query.Actor.ID,
			"error", err)
		return nil, errors.WrapDependency("failed to list complaints", err)
	}

	nearby := make([]*dto.NearbyComplaintDTO, 0, len(list))
	for _, c := range list {
		at := c.Location()
		if at == nil {
			continue
		}
		distance := geo.DistanceMeters(centre, *at)
		if distance > radius {
			continue
		}
		item := &dto.NearbyComplaintDTO{ComplaintDTO: dto.ToComplaintDTO(c), DistanceMeters: distance}
		if !query.Actor.IsAdmin() && c.UserID() != query.Actor.ID {
			item.UserID = ""
		}
		nearby = append(nearby, item)
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	return nearby, nil
}
