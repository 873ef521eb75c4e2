package usecases

import (
	"context"
	"time"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/domain/department"
)

// MediaStore persists uploaded photos and returns an opaque reference.
type MediaStore interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
}

// IDGenerator issues complaint identifiers.
type IDGenerator interface {
	NewID() string
}

// PriorityComputer is implemented by priority.Engine.
type PriorityComputer interface {
	Compute(ctx context.Context, s priority.Subject, now time.Time) priority.Assessment
	Rules() priority.Rules
}

// Assigner is implemented by assignment.Engine.
type Assigner interface {
	Assign(ctx context.Context, c *complaint.Complaint, now time.Time) (*department.Officer, error)
	AssignManually(ctx context.Context, c *complaint.Complaint, departmentID, officerID, note string, now time.Time) (*department.Officer, error)
}

// Transactor runs fn atomically; repositories join the transaction via ctx.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker grants a single holder for key across instances. release is nil
// when the lock was not acquired.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// Photo is an uploaded image waiting to be stored.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateComplaintExecutor interface {
	Execute(ctx context.Context, cmd CreateComplaintCommand) (*CreateComplaintResult, error)
}

type UpdateStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateStatusCommand) (*dto.ComplaintDTO, error)
}

type AssignComplaintExecutor interface {
	Execute(ctx context.Context, cmd AssignComplaintCommand) (*dto.ComplaintDTO, error)
}

type ReevaluatePriorityExecutor interface {
	Execute(ctx context.Context, cmd ReevaluatePriorityCommand) (*dto.ComplaintDTO, error)
}

type RunEscalationSweepExecutor interface {
	Execute(ctx context.Context) (*SweepResult, error)
}

type SubmitFeedbackExecutor interface {
	Execute(ctx context.Context, cmd SubmitFeedbackCommand) (*dto.ComplaintDTO, error)
}

type GetComplaintExecutor interface {
	Execute(ctx context.Context, query GetComplaintQuery) (*dto.ComplaintDTO, error)
}

type ListComplaintsExecutor interface {
	Execute(ctx context.Context, query ListComplaintsQuery) ([]*dto.ComplaintDTO, error)
}

type ListNearbyComplaintsExecutor interface {
	Execute(ctx context.Context, query ListNearbyComplaintsQuery) ([]*dto.NearbyComplaintDTO, error)
}

type GetComplaintStatsExecutor interface {
	Execute(ctx context.Context) (*dto.ComplaintStatsDTO, error)
}
