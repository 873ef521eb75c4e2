package valueobjects

import "fmt"

type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusEscalated  Status = "escalated"
)

var validStatuses = map[Status]bool{
	StatusSubmitted:  true,
	StatusAssigned:   true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusEscalated:  true,
}

// Status updates follow submitted -> assigned -> in_progress -> resolved, with
// escalated reachable from any open state. resolved is terminal.
var statusTransitions = map[Status][]Status{
	StatusSubmitted: {
		StatusAssigned,
		StatusEscalated,
	},
	StatusAssigned: {
		StatusInProgress,
		StatusResolved,
		StatusEscalated,
	},
	StatusInProgress: {
		StatusResolved,
		StatusEscalated,
	},
	StatusEscalated: {
		StatusInProgress,
		StatusResolved,
	},
}

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusSubmitted, StatusAssigned, StatusInProgress, StatusEscalated, StatusResolved}

// OfficerStatuses are the targets an officer may request through a status update.
var OfficerStatuses = []Status{StatusInProgress, StatusResolved, StatusEscalated}

// SweepCandidateStatuses are the statuses the escalation sweep inspects.
// Escalated and resolved complaints are never candidates.
var SweepCandidateStatuses = []Status{StatusSubmitted, StatusAssigned, StatusInProgress}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsResolved() bool {
	return s == StatusResolved
}

func (s Status) IsEscalated() bool {
	return s == StatusEscalated
}

// CanBeAssigned reports whether a department and officer may be (re)attached.
// Assignment always lands the complaint in assigned.
func (s Status) CanBeAssigned() bool {
	return s.IsValid() && s != StatusResolved
}

// IsOpen reports whether the complaint still needs work.
func (s Status) IsOpen() bool {
	return s != StatusResolved
}

// IsOfficerSettable reports whether an officer may move a complaint into s.
func (s Status) IsOfficerSettable() bool {
	for _, allowed := range OfficerStatuses {
		if allowed == s {
			return true
		}
	}
	return false
}

// Label is the human readable form shown in notifications.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusAssigned:
		return "Assigned"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	case StatusEscalated:
		return "Escalated"
	default:
		return string(s)
	}
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid complaint status: %s", s)
	}
	return st, nil
}
