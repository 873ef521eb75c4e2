package department

import (
	"fmt"
	"strings"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
)

// Department is an organizational unit owning one or more complaint categories.
type Department struct {
	ID         string
	Name       string
	Categories []vo.Category
}

func (d Department) Owns(category vo.Category) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Officer is a department member who can be handed complaints.
type Officer struct {
	ID            string
	Name          string
	Email         string
	DepartmentID  string
	Active        bool
	AssignedCount int
}

func NewOfficer(id, name, email, departmentID string, active bool) (*Officer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("officer ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("officer name is required")
	}
	if strings.TrimSpace(departmentID) == "" {
		return nil, fmt.Errorf("officer department is required")
	}
	return &Officer{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		DepartmentID: departmentID,
		Active:       active,
	}, nil
}

// CanTakeAssignments reports whether the officer may be selected.
func (o *Officer) CanTakeAssignments() bool {
	return o.Active
}
