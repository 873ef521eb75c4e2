// Package notification holds the delivery sinks the complaint lifecycle
// notifies through.
package notification

import (
	"context"
	"errors"

	"github.com/civictrack/civictrack/internal/domain/notification"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// LogSink writes notifications to the application log. It is the sink of
// last resort when no transport is configured.
type LogSink struct {
	logger logger.Interface
}

func NewLogSink(logger logger.Interface) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n notification.Notification) error {
	s.logger.Infow("notification",
		"user_id", n.UserID,
		"type", n.Type,
		"message", n.Message,
		"complaint_id", n.Data["complaint_id"])
	return nil
}

// FanoutSink delivers to every sink and joins their errors. One failing sink
// does not stop delivery to the rest.
type FanoutSink struct {
	sinks []notification.Sink
}

func NewFanoutSink(sinks ...notification.Sink) *FanoutSink {
	kept := make([]notification.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &FanoutSink{sinks: kept}
}

func (f *FanoutSink) Notify(ctx context.Context, n notification.Notification) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sinks are attached.
func (f *FanoutSink) Len() int {
	return len(f.sinks)
}
