// Package directory loads the department directory and the sensitive
// locations used by the priority engine.
package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type departmentEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

type locationEntry struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type officerEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	DepartmentID string `yaml:"department_id"`
	Active       *bool  `yaml:"active"`
}

type document struct {
	Departments        []departmentEntry `yaml:"departments"`
	SensitiveLocations []locationEntry   `yaml:"sensitive_locations"`
	Officers           []officerEntry    `yaml:"officers"`
}

// ReferenceData is the parsed, validated reference document.
type ReferenceData struct {
	Directory          *department.Directory
	SensitiveLocations []priority.SensitiveLocation
	Officers           []*department.Officer
}

var defaultDepartments = []departmentEntry{
	{ID: "roads", Name: "Road Department", Categories: []string{"road"}},
	{ID: "water", Name: "Water Supply", Categories: []string{"water"}},
	{ID: "sanitation", Name: "Sanitation Department", Categories: []string{"garbage"}},
	{ID: "electricity", Name: "Electricity Board", Categories: []string{"electricity"}},
}

// Load reads the reference document at path. An empty path yields the
// built-in departments with no sensitive locations or officers.
func Load(path string, log logger.Interface) (*ReferenceData, error) {
	if path == "" {
		log.Infow("no reference data file configured, using built-in departments")
		return build(document{})
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference data: %w", err)
	}

	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid reference data %s: %w", path, err)
	}

	log.Infow("reference data loaded",
		"path", path,
		"departments", len(data.Directory.All()),
		"sensitive_locations", len(data.SensitiveLocations),
		"officers", len(data.Officers))
	return data, nil
}

// Parse decodes a YAML reference document. Omitted departments fall back to
// the built-in set.
func Parse(raw []byte) (*ReferenceData, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return build(doc)
}

func build(doc document) (*ReferenceData, error) {
	entries := doc.Departments
	if len(entries) == 0 {
		entries = defaultDepartments
	}

	departments := make([]department.Department, 0, len(entries))
	for _, e := range entries {
		cats := make([]vo.Category, 0, len(e.Categories))
		for _, raw := range e.Categories {
			c, err := vo.NewCategory(raw)
			if err != nil {
				return nil, fmt.Errorf("department %q: %w", e.ID, err)
			}
			cats = append(cats, c)
		}
		departments = append(departments, department.Department{ID: e.ID, Name: e.Name, Categories: cats})
	}

	dir, err := department.NewDirectory(departments)
	if err != nil {
		return nil, err
	}

	locations := make([]priority.SensitiveLocation, 0, len(doc.SensitiveLocations))
	for _, l := range doc.SensitiveLocations {
		if l.Name == "" {
			return nil, fmt.Errorf("sensitive location name is required")
		}
		if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
			return nil, fmt.Errorf("sensitive location %q: coordinates out of range", l.Name)
		}
		locations = append(locations, priority.SensitiveLocation{Name: l.Name, Point: geo.Point{Lat: l.Lat, Lng: l.Lng}})
	}

	officers := make([]*department.Officer, 0, len(doc.Officers))
	for _, o := range doc.Officers {
		if _, ok := dir.Get(o.DepartmentID); !ok {
			return nil, fmt.Errorf("officer %q: unknown department %q", o.ID, o.DepartmentID)
		}
		active := o.Active == nil || *o.Active
		officer, err := department.NewOfficer(o.ID, o.Name, o.Email, o.DepartmentID, active)
		if err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}

	return &ReferenceData{
		Directory:          dir,
		SensitiveLocations: locations,
		Officers:           officers,
	}, nil
}
