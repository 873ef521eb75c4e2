package department

import "context"

// OfficerRepository stores officers and their current load. Get returns
// (nil, nil) when the officer does not exist.
type OfficerRepository interface {
	// ListActiveByDepartment returns active officers ordered by ascending load, then ID.
	ListActiveByDepartment(ctx context.Context, departmentID string) ([]*Officer, error)
	Get(ctx context.Context, id string) (*Officer, error)
	// AdjustLoad adds delta to the officer's assigned count, never going below zero.
	AdjustLoad(ctx context.Context, id string, delta int) error
	Save(ctx context.Context, officer *Officer) error
	List(ctx context.Context) ([]*Officer, error)
}
