package usecases

import (
	"context"
	"math"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type GetComplaintStatsUseCase struct {
	complaintRepo complaint.Repository
	logger        logger.Interface
}

func NewGetComplaintStatsUseCase(complaintRepo complaint.Repository, logger logger.Interface) *GetComplaintStatsUseCase {
	return &GetComplaintStatsUseCase{
		complaintRepo: complaintRepo,
		logger:        logger,
	}
}

func (uc *GetComplaintStatsUseCase) Execute(ctx context.Context) (*dto.ComplaintStatsDTO, error) {
	uc.logger.Infow("executing get complaint stats use case")

	list, err := uc.complaintRepo.List(ctx, complaint.Filter{})
	if err != nil {
		uc.logger.Errorw("failed to list complaints for stats", "error", err)
		return nil, errors.WrapDependency("failed to load complaints", err)
	}

	return summarize(list), nil
}

func summarize(list []*complaint.Complaint) *dto.ComplaintStatsDTO {
	stats := &dto.ComplaintStatsDTO{
		Total:          len(list),
		ByStatus:       make(map[string]int, len(vo.Statuses)),
		ByCategory:     make(map[string]int, len(vo.Categories)),
		ByPriority:     make(map[string]int, 3),
		ResolutionRate: make(map[string]float64, len(vo.Categories)),
	}
	for _, s := range vo.Statuses {
		stats.ByStatus[s.String()] = 0
	}
	for _, c := range vo.Categories {
		stats.ByCategory[c.String()] = 0
		stats.ResolutionRate[c.String()] = 0
	}

	resolvedByCategory := make(map[string]int, len(vo.Categories))
	var (
		resolutionHours float64
		ratingSum       int
		ratings         int
	)

	for _, c := range list {
		stats.ByStatus[c.Status().String()]++
		stats.ByCategory[c.Category().String()]++
		stats.ByPriority[c.Priority().String()]++

		switch {
		case c.Status().IsResolved():
			stats.Resolved++
			resolvedByCategory[c.Category().String()]++
			if c.ResolvedAt() != nil {
				resolutionHours += c.ResolvedAt().Sub(c.CreatedAt()).Hours()
			}
		case c.Status().IsEscalated():
			stats.Escalated++
			stats.Open++
		default:
			stats.Open++
		}

		if c.FeedbackRating() != nil {
			ratingSum += *c.FeedbackRating()
			ratings++
		}
	}

	for category, total := range stats.ByCategory {
		if total > 0 {
			stats.ResolutionRate[category] = round2(float64(resolvedByCategory[category]) / float64(total))
		}
	}
	if stats.Resolved > 0 {
		stats.AverageResolutionHours = round2(resolutionHours / float64(stats.Resolved))
	}
	if ratings > 0 {
		stats.AverageFeedbackRating = round2(float64(ratingSum) / float64(ratings))
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
