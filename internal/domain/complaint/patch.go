package complaint

import (
	"time"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
)

// Patch is a partial update produced by exactly one aggregate operation.
// Repositories persist a patch by touching only the fields it names.
type Patch interface {
	patch()
}

// PriorityPatch replaces the priority and its reasons wholesale.
type PriorityPatch struct {
	Priority  vo.Priority
	Reasons   []string
	UpdatedAt time.Time
}

// AssignmentPatch attaches a department and officer and moves the complaint to assigned.
type AssignmentPatch struct {
	DepartmentID   string
	DepartmentName string
	OfficerID      string
	OfficerName    string
	Status         vo.Status
	AssignedAt     time.Time
	Entry          TimelineEntry
	UpdatedAt      time.Time
}

// StatusUpdatePatch records a status change and, on resolution, its evidence.
type StatusUpdatePatch struct {
	Status             vo.Status
	Entry              TimelineEntry
	ResolutionPhotoRef *string
	ResolvedAt         *time.Time
	UpdatedAt          time.Time
}

// FeedbackPatch stores the citizen's one-time rating.
type FeedbackPatch struct {
	Rating    int
	Comment   string
	UpdatedAt time.Time
}

func (PriorityPatch) patch()     {}
func (AssignmentPatch) patch()   {}
func (StatusUpdatePatch) patch() {}
func (FeedbackPatch) patch()     {}
