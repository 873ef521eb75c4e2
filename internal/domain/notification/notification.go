// Package notification describes the messages the complaint lifecycle sends
// to citizens, officers and supervisors. Delivery belongs to sinks.
package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypeComplaintSubmitted Type = "complaint_submitted"
	TypeComplaintAssigned  Type = "complaint_assigned"
	TypeStatusUpdate       Type = "status_update"
	TypeComplaintResolved  Type = "complaint_resolved"
	TypeComplaintEscalated Type = "complaint_escalated"
	TypeFeedbackRequest    Type = "feedback_request"
)

func (t Type) String() string {
	return string(t)
}

// SupervisorRecipient addresses the escalation digest rather than a user.
const SupervisorRecipient = "supervisor"

type Notification struct {
	UserID    string            `json:"user_id"`
	Type      Type              `json:"type"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Sink delivers notifications. Callers treat delivery as fire-and-forget:
// a returned error is logged, never propagated.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
