package department

import (
	"fmt"

	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
)

// Directory is the configured set of departments. Categories partition
// across departments: each category belongs to exactly one.
type Directory struct {
	departments []Department
	byID        map[string]int
	byCategory  map[vo.Category]int
}

// NewDirectory validates that every category is owned by exactly one department.
func NewDirectory(departments []Department) (*Directory, error) {
	d := &Directory{
		departments: make([]Department, 0, len(departments)),
		byID:        make(map[string]int, len(departments)),
		byCategory:  make(map[vo.Category]int),
	}

	for _, dept := range departments {
		if dept.ID == "" {
			return nil, fmt.Errorf("department ID is required")
		}
		if _, dup := d.byID[dept.ID]; dup {
			return nil, fmt.Errorf("duplicate department %q", dept.ID)
		}
		idx := len(d.departments)
		for _, c := range dept.Categories {
			if !c.IsValid() {
				return nil, fmt.Errorf("department %q: invalid category %q", dept.ID, c)
			}
			if owner, taken := d.byCategory[c]; taken {
				return nil, fmt.Errorf("category %q mapped to both %q and %q", c, d.departments[owner].ID, dept.ID)
			}
			d.byCategory[c] = idx
		}
		d.byID[dept.ID] = idx
		cats := make([]vo.Category, len(dept.Categories))
		copy(cats, dept.Categories)
		dept.Categories = cats
		d.departments = append(d.departments, dept)
	}

	for _, c := range vo.Categories {
		if _, ok := d.byCategory[c]; !ok {
			return nil, fmt.Errorf("category %q has no department", c)
		}
	}

	return d, nil
}

// ForCategory returns the department owning category.
func (d *Directory) ForCategory(category vo.Category) (Department, bool) {
	idx, ok := d.byCategory[category]
	if !ok {
		return Department{}, false
	}
	return d.departments[idx], true
}

func (d *Directory) Get(id string) (Department, bool) {
	idx, ok := d.byID[id]
	if !ok {
		return Department{}, false
	}
	return d.departments[idx], true
}

func (d *Directory) All() []Department {
	out := make([]Department, len(d.departments))
	copy(out, d.departments)
	return out
}
