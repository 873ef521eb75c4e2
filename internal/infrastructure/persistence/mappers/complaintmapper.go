package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/models"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/geo"
)

// ComplaintMapper converts between the Complaint aggregate and its rows.
type ComplaintMapper interface {
	ToModel(c *complaint.Complaint) (*models.ComplaintModel, []models.ComplaintTimelineModel, error)
	ToDomain(model *models.ComplaintModel, timeline []models.ComplaintTimelineModel) (*complaint.Complaint, error)
	ToTimelineModel(complaintID string, seq int, entry complaint.TimelineEntry) models.ComplaintTimelineModel
}

type ComplaintMapperImpl struct{}

func NewComplaintMapper() ComplaintMapper {
	return &ComplaintMapperImpl{}
}

func (m *ComplaintMapperImpl) ToModel(c *complaint.Complaint) (*models.ComplaintModel, []models.ComplaintTimelineModel, error) {
	reasons, err := EncodeReasons(c.PriorityReasons())
	if err != nil {
		return nil, nil, err
	}

	model := &models.ComplaintModel{
		ID:                 c.ID(),
		UserID:             c.UserID(),
		Category:           c.Category().String(),
		Description:        c.Description(),
		Address:            c.Address(),
		PhotoRef:           c.PhotoRef(),
		ResolutionPhotoRef: c.ResolutionPhotoRef(),
		Status:             c.Status().String(),
		Priority:           c.Priority().String(),
		PriorityRank:       c.Priority().Rank(),
		PriorityReasons:    reasons,
		DepartmentID:       c.DepartmentID(),
		DepartmentName:     c.DepartmentName(),
		OfficerID:          c.OfficerID(),
		OfficerName:        c.OfficerName(),
		AssignedAt:         biztime.ToMillisPtr(c.AssignedAt()),
		HasFeedback:        c.HasFeedback(),
		FeedbackRating:     c.FeedbackRating(),
		FeedbackComment:    c.FeedbackComment(),
		CreatedAt:          biztime.ToMillis(c.CreatedAt()),
		UpdatedAt:          biztime.ToMillis(c.UpdatedAt()),
		ResolvedAt:         biztime.ToMillisPtr(c.ResolvedAt()),
	}

	if loc := c.Location(); loc != nil {
		lat, lng := loc.Lat, loc.Lng
		model.Latitude = &lat
		model.Longitude = &lng
	}

	entries := c.Timeline()
	timeline := make([]models.ComplaintTimelineModel, 0, len(entries))
	for i, e := range entries {
		timeline = append(timeline, m.ToTimelineModel(c.ID(), i, e))
	}

	return model, timeline, nil
}

func (m *ComplaintMapperImpl) ToTimelineModel(complaintID string, seq int, entry complaint.TimelineEntry) models.ComplaintTimelineModel {
	return models.ComplaintTimelineModel{
		ComplaintID: complaintID,
		Seq:         seq,
		Status:      entry.Status.String(),
		Note:        entry.Note,
		Timestamp:   biztime.ToMillis(entry.Timestamp),
	}
}

// ToDomain expects timeline rows ordered by Seq.
func (m *ComplaintMapperImpl) ToDomain(model *models.ComplaintModel, timeline []models.ComplaintTimelineModel) (*complaint.Complaint, error) {
	if model == nil {
		return nil, nil
	}

	reasons, err := DecodeReasons(model.PriorityReasons)
	if err != nil {
		return nil, fmt.Errorf("complaint %s: %w", model.ID, err)
	}

	entries := make([]complaint.TimelineEntry, 0, len(timeline))
	for _, row := range timeline {
		entries = append(entries, complaint.TimelineEntry{
			Status:    vo.Status(row.Status),
			Timestamp: biztime.FromMillis(row.Timestamp),
			Note:      row.Note,
		})
	}

	var location *geo.Point
	if model.Latitude != nil && model.Longitude != nil {
		location = &geo.Point{Lat: *model.Latitude, Lng: *model.Longitude}
	}

	c, err := complaint.ReconstructComplaint(complaint.ReconstructParams{
		ID:                 model.ID,
		UserID:             model.UserID,
		Category:           vo.Category(model.Category),
		Description:        model.Description,
		Location:           location,
		Address:            model.Address,
		PhotoRef:           model.PhotoRef,
		ResolutionPhotoRef: model.ResolutionPhotoRef,
		Status:             vo.Status(model.Status),
		Priority:           vo.Priority(model.Priority),
		PriorityReasons:    reasons,
		DepartmentID:       model.DepartmentID,
		DepartmentName:     model.DepartmentName,
		OfficerID:          model.OfficerID,
		OfficerName:        model.OfficerName,
		AssignedAt:         biztime.FromMillisPtr(model.AssignedAt),
		Timeline:           entries,
		CreatedAt:          biztime.FromMillis(model.CreatedAt),
		UpdatedAt:          biztime.FromMillis(model.UpdatedAt),
		ResolvedAt:         biztime.FromMillisPtr(model.ResolvedAt),
		HasFeedback:        model.HasFeedback,
		FeedbackRating:     model.FeedbackRating,
		FeedbackComment:    model.FeedbackComment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct complaint: %w", err)
	}
	return c, nil
}

// EncodeReasons stores an empty list as [] so the column is never NULL.
func EncodeReasons(reasons []string) (datatypes.JSON, error) {
	if reasons == nil {
		reasons = []string{}
	}
	raw, err := json.Marshal(reasons)
	if err != nil {
		return nil, fmt.Errorf("failed to encode priority reasons: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func DecodeReasons(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var reasons []string
	if err := json.Unmarshal(raw, &reasons); err != nil {
		return nil, fmt.Errorf("failed to decode priority reasons: %w", err)
	}
	if reasons == nil {
		reasons = []string{}
	}
	return reasons, nil
}
