package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/notification"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

const notifyTimeout = 5 * time.Second

var statusMessages = map[vo.Status]string{
	vo.StatusAssigned:   "Your complaint has been assigned to an officer",
	vo.StatusInProgress: "Work has started on your complaint",
	vo.StatusResolved:   "Your complaint has been resolved",
	vo.StatusEscalated:  "Your complaint has been escalated for priority attention",
}

// Notifier turns lifecycle events into notifications. Delivery failures are
// logged and swallowed.
type Notifier struct {
	sink   notification.Sink
	logger logger.Interface
}

func NewNotifier(sink notification.Sink, logger logger.Interface) *Notifier {
	return &Notifier{
		sink:   sink,
		logger: logger,
	}
}

func (n *Notifier) Submitted(ctx context.Context, c *complaint.Complaint) {
	n.send(ctx, notification.Notification{
		UserID:  c.UserID(),
		Type:    notification.TypeComplaintSubmitted,
		Message: fmt.Sprintf("Your %s complaint has been submitted", categoryLabel(c.Category())),
		Data:    complaintData(c),
	})
}

func (n *Notifier) Assigned(ctx context.Context, c *complaint.Complaint) {
	if officerID := c.OfficerID(); officerID != nil {
		n.send(ctx, notification.Notification{
			UserID:  *officerID,
			Type:    notification.TypeComplaintAssigned,
			Message: fmt.Sprintf("New %s complaint assigned to you", categoryLabel(c.Category())),
			Data:    complaintData(c),
		})
	}
	n.StatusChanged(ctx, c, vo.StatusSubmitted)
}

func (n *Notifier) StatusChanged(ctx context.Context, c *complaint.Complaint, previous vo.Status) {
	message, ok := statusMessages[c.Status()]
	if !ok {
		message = "Your complaint status has been updated"
	}
	data := complaintData(c)
	data["old_status"] = previous.String()
	data["new_status"] = c.Status().String()

	n.send(ctx, notification.Notification{
		UserID:  c.UserID(),
		Type:    notification.TypeStatusUpdate,
		Message: message,
		Data:    data,
	})

	if c.Status().IsResolved() {
		n.send(ctx, notification.Notification{
			UserID:  c.UserID(),
			Type:    notification.TypeComplaintResolved,
			Message: fmt.Sprintf("Your %s complaint has been resolved", categoryLabel(c.Category())),
			Data:    complaintData(c),
		})
		n.send(ctx, notification.Notification{
			UserID:  c.UserID(),
			Type:    notification.TypeFeedbackRequest,
			Message: "How did we do? Rate the resolution of your complaint",
			Data:    complaintData(c),
		})
	}
}

func (n *Notifier) Escalated(ctx context.Context, c *complaint.Complaint, note string) {
	data := complaintData(c)
	data["note"] = note
	message := fmt.Sprintf("%s complaint %s escalated: %s", categoryLabel(c.Category()), c.ID(), note)

	if officerID := c.OfficerID(); officerID != nil {
		n.send(ctx, notification.Notification{
			UserID:  *officerID,
			Type:    notification.TypeComplaintEscalated,
			Message: message,
			Data:    data,
		})
	}
	n.send(ctx, notification.Notification{
		UserID:  notification.SupervisorRecipient,
		Type:    notification.TypeComplaintEscalated,
		Message: message,
		Data:    data,
	})
}

func (n *Notifier) send(ctx context.Context, msg notification.Notification) {
	if n == nil || n.sink == nil {
		return
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := n.sink.Notify(ctx, msg); err != nil {
		n.logger.Warnw("failed to deliver notification",
			"user_id", msg.UserID,
			"type", msg.Type,
			"complaint_id", msg.Data["complaint_id"],
			"error", err)
	}
}

// categoryLabel title-cases a category for display. Casers are stateful, so
// each call builds its own.
func categoryLabel(c vo.Category) string {
	return cases.Title(language.English).String(c.String())
}

func complaintData(c *complaint.Complaint) map[string]string {
	return map[string]string{
		"complaint_id": c.ID(),
		"category":     c.Category().String(),
		"priority":     c.Priority().String(),
		"status":       c.Status().String(),
	}
}
