package complaint

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/geo"
)

const (
	maxDescriptionLength = 5000
	maxNoteLength        = 2000
)

// ValidateDescription checks a trimmed complaint description.
func ValidateDescription(description string) error {
	if description == "" {
		return ErrDescriptionRequired
	}
	if len(description) > maxDescriptionLength {
		return fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	return nil
}

// ValidateNote checks a trimmed status-change note.
func ValidateNote(note string) error {
	if note == "" {
		return ErrNoteRequired
	}
	if len(note) > maxNoteLength {
		return fmt.Errorf("note exceeds maximum length of %d characters", maxNoteLength)
	}
	return nil
}

// Complaint is a citizen-filed civic issue and its status history.
//
// Invariants: the timeline is never empty, starts with submitted, and its last
// entry matches status; resolvedAt is set iff status is resolved.
type Complaint struct {
	id                 string
	userID             string
	category           vo.Category
	description        string
	location           *geo.Point
	address            string
	photoRef           *string
	resolutionPhotoRef *string
	status             vo.Status
	priority           vo.Priority
	priorityReasons    []string
	departmentID       *string
	departmentName     string
	officerID          *string
	officerName        string
	assignedAt         *time.Time
	timeline           []TimelineEntry
	createdAt          time.Time
	updatedAt          time.Time
	resolvedAt         *time.Time
	hasFeedback        bool
	feedbackRating     *int
	feedbackComment    string
}

// NewComplaint builds a freshly submitted complaint. The priority is the
// outcome of the priority engine for a brand new record.
func NewComplaint(
	id string,
	userID string,
	category vo.Category,
	description string,
	location *geo.Point,
	address string,
	photoRef *string,
	priority vo.Priority,
	reasons []string,
	now time.Time,
) (*Complaint, error) {
	if id == "" {
		return nil, fmt.Errorf("complaint ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", category)
	}
	description = strings.TrimSpace(description)
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		priority = vo.PriorityNormal
	}

	return &Complaint{
		id:              id,
		userID:          userID,
		category:        category,
		description:     description,
		location:        copyPoint(location),
		address:         strings.TrimSpace(address),
		photoRef:        photoRef,
		status:          vo.StatusSubmitted,
		priority:        priority,
		priorityReasons: copyStrings(reasons),
		timeline: []TimelineEntry{
			{Status: vo.StatusSubmitted, Timestamp: now, Note: NoteSubmitted},
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructParams carries a stored complaint back into the domain.
type ReconstructParams struct {
	ID                 string
	UserID             string
	Category           vo.Category
	Description        string
	Location           *geo.Point
	Address            string
	PhotoRef           *string
	ResolutionPhotoRef *string
	Status             vo.Status
	Priority           vo.Priority
	PriorityReasons    []string
	DepartmentID       *string
	DepartmentName     string
	OfficerID          *string
	OfficerName        string
	AssignedAt         *time.Time
	Timeline           []TimelineEntry
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ResolvedAt         *time.Time
	HasFeedback        bool
	FeedbackRating     *int
	FeedbackComment    string
}

func ReconstructComplaint(p ReconstructParams) (*Complaint, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("complaint ID is required")
	}
	if !p.Category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", p.Category)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}
	if len(p.Timeline) == 0 {
		return nil, fmt.Errorf("complaint %s has an empty timeline", p.ID)
	}
	if p.Timeline[0].Status != vo.StatusSubmitted {
		return nil, fmt.Errorf("complaint %s timeline does not start with submitted", p.ID)
	}
	if last := p.Timeline[len(p.Timeline)-1]; last.Status != p.Status {
		return nil, fmt.Errorf("complaint %s timeline ends with %s but status is %s", p.ID, last.Status, p.Status)
	}
	if (p.ResolvedAt != nil) != p.Status.IsResolved() {
		return nil, fmt.Errorf("complaint %s resolvedAt does not match status %s", p.ID, p.Status)
	}

	timeline := make([]TimelineEntry, len(p.Timeline))
	copy(timeline, p.Timeline)

	return &Complaint{
		id:                 p.ID,
		userID:             p.UserID,
		category:           p.Category,
		description:        p.Description,
		location:           copyPoint(p.Location),
		address:            p.Address,
		photoRef:           p.PhotoRef,
		resolutionPhotoRef: p.ResolutionPhotoRef,
		status:             p.Status,
		priority:           p.Priority,
		priorityReasons:    copyStrings(p.PriorityReasons),
		departmentID:       p.DepartmentID,
		departmentName:     p.DepartmentName,
		officerID:          p.OfficerID,
		officerName:        p.OfficerName,
		assignedAt:         p.AssignedAt,
		timeline:           timeline,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		resolvedAt:         p.ResolvedAt,
		hasFeedback:        p.HasFeedback,
		feedbackRating:     p.FeedbackRating,
		feedbackComment:    p.FeedbackComment,
	}, nil
}

func (c *Complaint) ID() string                  { return c.id }
func (c *Complaint) UserID() string              { return c.userID }
func (c *Complaint) Category() vo.Category       { return c.category }
func (c *Complaint) Description() string         { return c.description }
func (c *Complaint) Address() string             { return c.address }
func (c *Complaint) PhotoRef() *string           { return c.photoRef }
func (c *Complaint) ResolutionPhotoRef() *string { return c.resolutionPhotoRef }
func (c *Complaint) Status() vo.Status           { return c.status }
func (c *Complaint) Priority() vo.Priority       { return c.priority }
func (c *Complaint) DepartmentID() *string       { return c.departmentID }
func (c *Complaint) DepartmentName() string      { return c.departmentName }
func (c *Complaint) OfficerID() *string          { return c.officerID }
func (c *Complaint) OfficerName() string         { return c.officerName }
func (c *Complaint) AssignedAt() *time.Time      { return c.assignedAt }
func (c *Complaint) CreatedAt() time.Time        { return c.createdAt }
func (c *Complaint) UpdatedAt() time.Time        { return c.updatedAt }
func (c *Complaint) ResolvedAt() *time.Time      { return c.resolvedAt }
func (c *Complaint) HasFeedback() bool           { return c.hasFeedback }
func (c *Complaint) FeedbackRating() *int        { return c.feedbackRating }
func (c *Complaint) FeedbackComment() string     { return c.feedbackComment }

// Location returns a copy of the reported coordinates, or nil.
func (c *Complaint) Location() *geo.Point {
	return copyPoint(c.location)
}

func (c *Complaint) PriorityReasons() []string {
	return copyStrings(c.priorityReasons)
}

func (c *Complaint) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(c.timeline))
	copy(out, c.timeline)
	return out
}

// IsAssigned reports whether an officer is attached.
func (c *Complaint) IsAssigned() bool {
	return c.officerID != nil
}

// AssignedOfficerIs reports whether officerID owns this complaint.
func (c *Complaint) AssignedOfficerIs(officerID string) bool {
	return c.officerID != nil && *c.officerID == officerID
}

// Age is the time elapsed since submission.
func (c *Complaint) Age(now time.Time) time.Duration {
	return now.Sub(c.createdAt)
}

// Clone returns an independent copy. Changes applied to the copy can be
// adopted once they are persisted.
func (c *Complaint) Clone() *Complaint {
	cp := *c
	cp.location = copyPoint(c.location)
	cp.priorityReasons = copyStrings(c.priorityReasons)
	cp.timeline = make([]TimelineEntry, len(c.timeline))
	copy(cp.timeline, c.timeline)
	return &cp
}

// ApplyPriority replaces priority and reasons with a fresh computation. A
// result lower than the stored priority is ignored; changed reports whether
// anything was written.
func (c *Complaint) ApplyPriority(priority vo.Priority, reasons []string, now time.Time) (PriorityPatch, bool) {
	if !priority.IsValid() || priority.Rank() < c.priority.Rank() {
		return PriorityPatch{}, false
	}
	if priority == c.priority && equalStrings(reasons, c.priorityReasons) {
		return PriorityPatch{}, false
	}

	c.priority = priority
	c.priorityReasons = copyStrings(reasons)
	c.updatedAt = now

	return PriorityPatch{
		Priority:  c.priority,
		Reasons:   c.PriorityReasons(),
		UpdatedAt: now,
	}, true
}

// Assign attaches a department and officer. An empty note records the
// default assignment note.
func (c *Complaint) Assign(departmentID, departmentName, officerID, officerName, note string, now time.Time) (AssignmentPatch, error) {
	if departmentID == "" || officerID == "" {
		return AssignmentPatch{}, fmt.Errorf("department and officer are required")
	}
	if !c.status.CanBeAssigned() {
		return AssignmentPatch{}, fmt.Errorf("%w: cannot assign a %s complaint", ErrInvalidTransition, c.status)
	}
	if strings.TrimSpace(note) == "" {
		note = NoteAssigned
	}

	entry := c.appendEntry(vo.StatusAssigned, note, now)

	c.departmentID = &departmentID
	c.departmentName = departmentName
	c.officerID = &officerID
	c.officerName = officerName
	assignedAt := entry.Timestamp
	c.assignedAt = &assignedAt
	c.status = vo.StatusAssigned
	c.updatedAt = entry.Timestamp

	return AssignmentPatch{
		DepartmentID:   departmentID,
		DepartmentName: departmentName,
		OfficerID:      officerID,
		OfficerName:    officerName,
		Status:         vo.StatusAssigned,
		AssignedAt:     assignedAt,
		Entry:          entry,
		UpdatedAt:      entry.Timestamp,
	}, nil
}

// UpdateStatus moves the complaint along the state machine and appends one
// timeline entry. resolutionPhotoRef is only recorded on resolution.
func (c *Complaint) UpdateStatus(next vo.Status, note string, resolutionPhotoRef *string, now time.Time) (StatusUpdatePatch, error) {
	note = strings.TrimSpace(note)
	if err := ValidateNote(note); err != nil {
		return StatusUpdatePatch{}, err
	}
	if !next.IsValid() {
		return StatusUpdatePatch{}, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, next)
	}
	if !c.status.CanTransitionTo(next) {
		return StatusUpdatePatch{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.status, next)
	}

	entry := c.appendEntry(next, note, now)
	c.status = next
	c.updatedAt = entry.Timestamp

	patch := StatusUpdatePatch{
		Status:    next,
		Entry:     entry,
		UpdatedAt: entry.Timestamp,
	}

	if next.IsResolved() {
		resolvedAt := entry.Timestamp
		c.resolvedAt = &resolvedAt
		patch.ResolvedAt = &resolvedAt
		if resolutionPhotoRef != nil {
			ref := *resolutionPhotoRef
			c.resolutionPhotoRef = &ref
			patch.ResolutionPhotoRef = &ref
		}
	}

	return patch, nil
}

// Escalate flags the complaint as escalated with a generated note.
func (c *Complaint) Escalate(note string, now time.Time) (StatusUpdatePatch, error) {
	return c.UpdateStatus(vo.StatusEscalated, note, nil, now)
}

// SubmitFeedback records the reporting citizen's rating. It may only be done
// once, and only after resolution.
func (c *Complaint) SubmitFeedback(userID string, rating int, comment string, now time.Time) (FeedbackPatch, error) {
	if userID != c.userID {
		return FeedbackPatch{}, fmt.Errorf("%w: only the reporting citizen may rate a complaint", ErrFeedbackNotAllowed)
	}
	if rating < 1 || rating > 5 {
		return FeedbackPatch{}, ErrInvalidRating
	}
	if !c.status.IsResolved() {
		return FeedbackPatch{}, fmt.Errorf("%w: complaint is %s", ErrInvalidTransition, c.status)
	}
	if c.hasFeedback {
		return FeedbackPatch{}, fmt.Errorf("%w: feedback already submitted", ErrInvalidTransition)
	}

	c.hasFeedback = true
	c.feedbackRating = &rating
	c.feedbackComment = strings.TrimSpace(comment)
	c.updatedAt = now

	return FeedbackPatch{
		Rating:    rating,
		Comment:   c.feedbackComment,
		UpdatedAt: now,
	}, nil
}

// appendEntry keeps timeline timestamps non-decreasing even if the clock steps back.
func (c *Complaint) appendEntry(status vo.Status, note string, now time.Time) TimelineEntry {
	if n := len(c.timeline); n > 0 && now.Before(c.timeline[n-1].Timestamp) {
		now = c.timeline[n-1].Timestamp
	}
	entry := TimelineEntry{Status: status, Timestamp: now, Note: note}
	c.timeline = append(c.timeline, entry)
	return entry
}

func copyPoint(p *geo.Point) *geo.Point {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
