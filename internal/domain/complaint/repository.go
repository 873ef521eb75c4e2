package complaint

import (
	"context"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/geo"
)

// Repository persists complaints. Get returns (nil, nil) when the complaint
// does not exist; every other failure is returned as an error.
type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	Get(ctx context.Context, id string) (*Complaint, error)
	// ListByUser returns the citizen's complaints, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Complaint, error)
	// ListByCategoryExcludingStatus backs the cluster rule.
	ListByCategoryExcludingStatus(ctx context.Context, category vo.Category, exclude vo.Status) ([]*Complaint, error)
	// ListByOfficer orders by priority (critical first) then newest first.
	ListByOfficer(ctx context.Context, officerID string) ([]*Complaint, error)
	List(ctx context.Context, filter Filter) ([]*Complaint, error)
	Update(ctx context.Context, id string, patch Patch) error
}

// Filter narrows List. Nil fields do not filter.
type Filter struct {
	Status   *vo.Status
	Statuses []vo.Status
	Category *vo.Category
	Priority *vo.Priority
	// Within keeps located complaints inside the rectangle.
	Within *geo.Bounds
}
