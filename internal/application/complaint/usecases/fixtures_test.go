package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/application/complaint/assignment"
	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/sanitize"
)

var (
	testNow  = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	hospital = priority.SensitiveLocation{Name: "City Hospital", Point: geo.Point{Lat: 28.6139, Lng: 77.2090}}
	// Several kilometres from the hospital.
	quietStreet = geo.Point{Lat: 28.7000, Lng: 77.1000}
)

const metersPerDegreeLat = 111194.93

func north(p geo.Point, meters float64) geo.Point {
	return geo.Point{Lat: p.Lat + meters/metersPerDegreeLat, Lng: p.Lng}
}

func testDirectory(t *testing.T) *department.Directory {
	t.Helper()
	dir, err := department.NewDirectory([]department.Department{
		{ID: "roads", Name: "Road Department", Categories: []vo.Category{vo.CategoryRoad}},
		{ID: "water", Name: "Water Supply", Categories: []vo.Category{vo.CategoryWater}},
		{ID: "sanitation", Name: "Sanitation Department", Categories: []vo.Category{vo.CategoryGarbage}},
		{ID: "electricity", Name: "Electricity Board", Categories: []vo.Category{vo.CategoryElectricity}},
	})
	require.NoError(t, err)
	return dir
}

func testOfficer(id, dept string, active bool, load int) *department.Officer {
	return &department.Officer{ID: id, Name: "Officer " + id, DepartmentID: dept, Active: active, AssignedCount: load}
}

// lifecycle wires the real priority and assignment engines over in-memory stores.
type lifecycle struct {
	complaints *memoryComplaints
	repo       *mockComplaintRepository
	officers   *mockOfficerRepository
	priority   *priority.Engine
	assigner   *assignment.Engine
	tx         *mockTransactor
	media      *mockMediaStore
	sink       *recordingSink
	notifier   *Notifier
	clock      *biztime.FixedClock
}

func newLifecycle(t *testing.T, officers ...*department.Officer) *lifecycle {
	t.Helper()
	l := &lifecycle{
		complaints: newMemoryComplaints(),
		officers:   newMockOfficerRepository(officers...),
		tx:         &mockTransactor{},
		media:      &mockMediaStore{},
		sink:       &recordingSink{},
		clock:      biztime.NewFixedClock(testNow),
	}
	l.repo = l.complaints.repository()
	l.priority = priority.NewEngine(l.repo, []priority.SensitiveLocation{hospital}, priority.DefaultRules(), logger.NewNop())
	l.assigner = assignment.NewEngine(testDirectory(t), l.officers, l.repo, l.tx, logger.NewNop())
	l.notifier = NewNotifier(l.sink, logger.NewNop())
	return l
}

func (l *lifecycle) createUseCase() *CreateComplaintUseCase {
	return NewCreateComplaintUseCase(l.repo, l.priority, l.assigner, l.media, &sequenceIDs{}, l.notifier, sanitize.New(), l.clock, logger.NewNop())
}

func (l *lifecycle) updateStatusUseCase() *UpdateStatusUseCase {
	return NewUpdateStatusUseCase(l.repo, l.officers, l.tx, l.media, l.notifier, sanitize.New(), l.clock, logger.NewNop())
}

func (l *lifecycle) sweepUseCase(locker Locker) *RunEscalationSweepUseCase {
	return NewRunEscalationSweepUseCase(l.repo, l.priority, locker, l.notifier, SweepOptions{}, l.clock, logger.NewNop())
}

// seedComplaint stores a complaint created at the given time, optionally
// assigned to officerID.
func (l *lifecycle) seedComplaint(t *testing.T, id string, category vo.Category, at *geo.Point, createdAt time.Time, officerID string) *complaint.Complaint {
	t.Helper()
	c, err := complaint.NewComplaint(id, "citizen-"+id, category, "reported issue", at, "", nil, vo.PriorityNormal, nil, createdAt)
	require.NoError(t, err)
	if officerID != "" {
		_, err = c.Assign("roads", "Road Department", officerID, "Officer "+officerID, "", createdAt.Add(time.Minute))
		require.NoError(t, err)
	}
	l.complaints.complaints[id] = c
	l.complaints.order = append(l.complaints.order, id)
	return c
}

func countEntries(c *complaint.Complaint, status vo.Status) int {
	n := 0
	for _, e := range c.Timeline() {
		if e.Status == status {
			n++
		}
	}
	return n
}
