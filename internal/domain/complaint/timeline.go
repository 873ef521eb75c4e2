package complaint

import (
	"time"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
)

// TimelineEntry is one audit record in a complaint's status history.
type TimelineEntry struct {
	Status    vo.Status
	Timestamp time.Time
	Note      string
}

const (
	NoteSubmitted = "Complaint submitted"
	NoteAssigned  = "Assigned to department"
)
