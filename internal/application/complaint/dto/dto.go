package dto

import (
	"time"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/mapper"
)

// Timestamps serialize as RFC 3339 in UTC with millisecond precision.

type ComplaintDTO struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	Category           string             `json:"category"`
	Description        string             `json:"description"`
	Location           *geo.Point         `json:"location,omitempty"`
	Address            string             `json:"address"`
	PhotoRef           *string            `json:"photo_ref"`
	ResolutionPhotoRef *string            `json:"resolution_photo_ref"`
	Status             string             `json:"status"`
	Priority           string             `json:"priority"`
	PriorityReasons    []string           `json:"priority_reasons"`
	DepartmentID       *string            `json:"assigned_department"`
	DepartmentName     string             `json:"department_name,omitempty"`
	OfficerID          *string            `json:"assigned_officer"`
	OfficerName        string             `json:"officer_name,omitempty"`
	AssignedAt         *time.Time         `json:"assigned_at"`
	Timeline           []TimelineEntryDTO `json:"timeline"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	ResolvedAt         *time.Time         `json:"resolved_at"`
	HasFeedback        bool               `json:"has_feedback"`
	FeedbackRating     *int               `json:"feedback_rating"`
}

type TimelineEntryDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

func ToComplaintDTO(c *complaint.Complaint) *ComplaintDTO {
	if c == nil {
		return nil
	}

	timeline := c.Timeline()
	entries := make([]TimelineEntryDTO, 0, len(timeline))
	for _, e := range timeline {
		entries = append(entries, TimelineEntryDTO{
			Status:    e.Status.String(),
			Timestamp: e.Timestamp.UTC(),
			Note:      e.Note,
		})
	}

	return &ComplaintDTO{
		ID:                 c.ID(),
		UserID:             c.UserID(),
		Category:           c.Category().String(),
		Description:        c.Description(),
		Location:           c.Location(),
		Address:            c.Address(),
		PhotoRef:           c.PhotoRef(),
		ResolutionPhotoRef: c.ResolutionPhotoRef(),
		Status:             c.Status().String(),
		Priority:           c.Priority().String(),
		PriorityReasons:    c.PriorityReasons(),
		DepartmentID:       c.DepartmentID(),
		DepartmentName:     c.DepartmentName(),
		OfficerID:          c.OfficerID(),
		OfficerName:        c.OfficerName(),
		AssignedAt:         utcPtr(c.AssignedAt()),
		Timeline:           entries,
		CreatedAt:          c.CreatedAt().UTC(),
		UpdatedAt:          c.UpdatedAt().UTC(),
		ResolvedAt:         utcPtr(c.ResolvedAt()),
		HasFeedback:        c.HasFeedback(),
		FeedbackRating:     c.FeedbackRating(),
	}
}

// ToComplaintDTOs never returns nil so empty lists encode as [].
func ToComplaintDTOs(list []*complaint.Complaint) []*ComplaintDTO {
	if out := mapper.MapSlicePtrSkipNil(list, ToComplaintDTO); out != nil {
		return out
	}
	return []*ComplaintDTO{}
}

// ComplaintStatsDTO is the admin analytics summary.
type ComplaintStatsDTO struct {
	Total                  int                `json:"total"`
	Open                   int                `json:"open"`
	Resolved               int                `json:"resolved"`
	Escalated              int                `json:"escalated"`
	ByStatus               map[string]int     `json:"by_status"`
	ByCategory             map[string]int     `json:"by_category"`
	ByPriority             map[string]int     `json:"by_priority"`
	ResolutionRate         map[string]float64 `json:"resolution_rate_by_category"`
	AverageResolutionHours float64            `json:"average_resolution_hours"`
	AverageFeedbackRating  float64            `json:"average_feedback_rating"`
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// NearbyComplaintDTO is a complaint on the community map with its distance
// from the caller's position.
type NearbyComplaintDTO struct {
	*ComplaintDTO
	DistanceMeters float64 `json:"distance_meters"`
}
