// Package assignment routes complaints to the owning department and its
// least-loaded active officer.
package assignment

import (
	"context"
	"sort"
	"time"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// ComplaintWriter is the part of the complaint repository assignment writes through.
type ComplaintWriter interface {
	Update(ctx context.Context, id string, patch complaint.Patch) error
}

// Transactor runs fn atomically. Repositories pick the transaction up from ctx.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Engine struct {
	directory  *department.Directory
	officers   department.OfficerRepository
	complaints ComplaintWriter
	tx         Transactor
	logger     logger.Interface
}

func NewEngine(
	directory *department.Directory,
	officers department.OfficerRepository,
	complaints ComplaintWriter,
	tx Transactor,
	logger logger.Interface,
) *Engine {
	return &Engine{
		directory:  directory,
		officers:   officers,
		complaints: complaints,
		tx:         tx,
		logger:     logger,
	}
}

// Assign picks the department owning the complaint's category and its
// least-loaded active officer, then persists the assignment. A nil officer
// with a nil error means the department has nobody available; the complaint
// stays unassigned.
func (e *Engine) Assign(ctx context.Context, c *complaint.Complaint, now time.Time) (*department.Officer, error) {
	dept, ok := e.directory.ForCategory(c.Category())
	if !ok {
		e.logger.Warnw("no department for category",
			"complaint_id", c.ID(),
			"category", c.Category())
		return nil, errors.NewNoDepartmentError(c.Category().String())
	}

	candidates, err := e.officers.ListActiveByDepartment(ctx, dept.ID)
	if err != nil {
		e.logger.Errorw("failed to list officers", "department_id", dept.ID, "error", err)
		return nil, errors.WrapDependency("failed to list officers", err)
	}

	officer := SelectOfficer(candidates, dept.ID)
	if officer == nil {
		e.logger.Warnw("no active officers available, complaint remains unassigned",
			"complaint_id", c.ID(),
			"department_id", dept.ID)
		return nil, nil
	}

	if err := e.persist(ctx, c, dept, officer, "", now); err != nil {
		return nil, err
	}

	e.logger.Infow("complaint auto-assigned",
		"complaint_id", c.ID(),
		"department_id", dept.ID,
		"officer_id", officer.ID,
		"officer_load", officer.AssignedCount)

	return officer, nil
}

// AssignManually attaches an explicitly chosen department and officer,
// bypassing selection. The officer must be active and belong to the department.
func (e *Engine) AssignManually(ctx context.Context, c *complaint.Complaint, departmentID, officerID, note string, now time.Time) (*department.Officer, error) {
	dept, ok := e.directory.Get(departmentID)
	if !ok {
		return nil, errors.NewNotFoundError("department not found", departmentID)
	}

	officer, err := e.officers.Get(ctx, officerID)
	if err != nil {
		e.logger.Errorw("failed to load officer", "officer_id", officerID, "error", err)
		return nil, errors.WrapDependency("failed to load officer", err)
	}
	if officer == nil {
		return nil, errors.NewNotFoundError("officer not found", officerID)
	}
	if officer.DepartmentID != dept.ID {
		return nil, errors.NewValidationError("officer does not belong to department", officerID)
	}
	if !officer.CanTakeAssignments() {
		return nil, errors.NewValidationError("officer is not active", officerID)
	}

	if err := e.persist(ctx, c, dept, officer, note, now); err != nil {
		return nil, err
	}

	e.logger.Infow("complaint manually assigned",
		"complaint_id", c.ID(),
		"department_id", dept.ID,
		"officer_id", officer.ID)

	return officer, nil
}

// persist writes the assignment patch and moves one unit of load onto the
// new officer (and off the previous one on reassignment) in one transaction.
// c only changes once the transaction commits.
func (e *Engine) persist(ctx context.Context, c *complaint.Complaint, dept department.Department, officer *department.Officer, note string, now time.Time) error {
	var previous string
	if prev := c.OfficerID(); prev != nil {
		previous = *prev
	}

	draft := c.Clone()
	patch, err := draft.Assign(dept.ID, dept.Name, officer.ID, officer.Name, note, now)
	if err != nil {
		return errors.NewInvalidTransitionError(err.Error())
	}

	err = e.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := e.complaints.Update(txCtx, c.ID(), patch); err != nil {
			return err
		}
		if previous == officer.ID {
			return nil
		}
		if previous != "" {
			if err := e.officers.AdjustLoad(txCtx, previous, -1); err != nil {
				return err
			}
		}
		return e.officers.AdjustLoad(txCtx, officer.ID, 1)
	})
	if err != nil {
		e.logger.Errorw("failed to persist assignment",
			"complaint_id", c.ID(),
			"officer_id", officer.ID,
			"error", err)
		return errors.WrapDependency("failed to persist assignment", err)
	}

	*c = *draft
	officer.AssignedCount++
	return nil
}

// SelectOfficer returns the active officer of departmentID with the lowest
// assigned count, breaking ties by ID. Officers that are inactive or belong
// elsewhere are never selected.
func SelectOfficer(officers []*department.Officer, departmentID string) *department.Officer {
	eligible := make([]*department.Officer, 0, len(officers))
	for _, o := range officers {
		if o == nil || !o.CanTakeAssignments() || o.DepartmentID != departmentID {
			continue
		}
		eligible = append(eligible, o)
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].AssignedCount != eligible[j].AssignedCount {
			return eligible[i].AssignedCount < eligible[j].AssignedCount
		}
		return eligible[i].ID < eligible[j].ID
	})
	return eligible[0]
}
