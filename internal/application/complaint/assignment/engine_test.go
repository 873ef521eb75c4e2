package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/department"
	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeOfficers struct {
	officers map[string]*department.Officer
	listErr  error
	loadErr  error
}

func newFakeOfficers(officers ...*department.Officer) *fakeOfficers {
	f := &fakeOfficers{officers: map[string]*department.Officer{}}
	for _, o := range officers {
		f.officers[o.ID] = o
	}
	return f
}

func (f *fakeOfficers) ListActiveByDepartment(ctx context.Context, departmentID string) ([]*department.Officer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*department.Officer
	for _, o := range f.officers {
		if o.DepartmentID == departmentID && o.Active {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOfficers) Get(ctx context.Context, id string) (*department.Officer, error) {
	o, ok := f.officers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOfficers) AdjustLoad(ctx context.Context, id string, delta int) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	o := f.officers[id]
	o.AssignedCount += delta
	if o.AssignedCount < 0 {
		o.AssignedCount = 0
	}
	return nil
}

func (f *fakeOfficers) Save(ctx context.Context, o *department.Officer) error {
	f.officers[o.ID] = o
	return nil
}

func (f *fakeOfficers) List(ctx context.Context) ([]*department.Officer, error) {
	var out []*department.Officer
	for _, o := range f.officers {
		out = append(out, o)
	}
	return out, nil
}

type recordingWriter struct {
	patches []complaint.Patch
	err     error
}

func (w *recordingWriter) Update(ctx context.Context, id string, patch complaint.Patch) error {
	if w.err != nil {
		return w.err
	}
	w.patches = append(w.patches, patch)
	return nil
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func officer(id, dept string, active bool, load int) *department.Officer {
	return &department.Officer{ID: id, Name: "Officer " + id, DepartmentID: dept, Active: active, AssignedCount: load}
}

func newComplaint(t *testing.T, category vo.Category) *complaint.Complaint {
	t.Helper()
	c, err := complaint.NewComplaint("c-1", "citizen-1", category, "broken", nil, "", nil, vo.PriorityNormal, nil, now.Add(-time.Minute))
	require.NoError(t, err)
	return c
}

func TestSelectOfficer(t *testing.T) {
	tests := []struct {
		name     string
		officers []*department.Officer
		want     string
	}{
		{
			name:     "lowest load wins",
			officers: []*department.Officer{officer("b", "roads", true, 4), officer("a", "roads", true, 2), officer("c", "roads", true, 3)},
			want:     "a",
		},
		{
			name:     "ties broken by id",
			officers: []*department.Officer{officer("zed", "roads", true, 1), officer("amy", "roads", true, 1)},
			want:     "amy",
		},
		{
			name:     "inactive skipped even when idle",
			officers: []*department.Officer{officer("idle", "roads", false, 0), officer("busy", "roads", true, 9)},
			want:     "busy",
		},
		{
			name:     "other departments skipped",
			officers: []*department.Officer{officer("w", "water", true, 0), officer("r", "roads", true, 5)},
			want:     "r",
		},
		{
			name:     "nobody eligible",
			officers: []*department.Officer{officer("w", "water", true, 0), officer("x", "roads", false, 0)},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectOfficer(tt.officers, "roads")
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestAssign_RoutesToLeastLoadedOfficer(t *testing.T) {
	officers := newFakeOfficers(
		officer("r-2", "roads", true, 3),
		officer("r-1", "roads", true, 1),
		officer("r-0", "roads", false, 0),
		officer("w-1", "water", true, 0),
	)
	writer := &recordingWriter{}
	engine := NewEngine(testDirectory(t), officers, writer, directTx{}, logger.NewNop())
	c := newComplaint(t, vo.CategoryRoad)

	got, err := engine.Assign(context.Background(), c, now)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, vo.StatusAssigned, c.Status())
	assert.Equal(t, "Road Department", c.DepartmentName())
	assert.Equal(t, 2, officers.officers["r-1"].AssignedCount)

	require.Len(t, writer.patches, 1)
	patch, ok := writer.patches[0].(complaint.AssignmentPatch)
	require.True(t, ok)
	assert.Equal(t, "roads", patch.DepartmentID)
	assert.Equal(t, "r-1", patch.OfficerID)
	assert.Equal(t, vo.StatusAssigned, patch.Entry.Status)
	assert.Equal(t, now, patch.AssignedAt)
}

func TestAssign_NoOfficersLeavesComplaintUnassigned(t *testing.T) {
	writer := &recordingWriter{}
	engine := NewEngine(testDirectory(t), newFakeOfficers(officer("w-1", "water", true, 0)), writer, directTx{}, logger.NewNop())
	c := newComplaint(t, vo.CategoryRoad)

	got, err := engine.Assign(context.Background(), c, now)

	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, vo.StatusSubmitted, c.Status())
	assert.Empty(t, writer.patches)
}

func TestAssign_RepositoryFailures(t *testing.T) {
	t.Run("officer listing fails", func(t *testing.T) {
		officers := newFakeOfficers(officer("r-1", "roads", true, 0))
		officers.listErr = context.DeadlineExceeded
		engine := NewEngine(testDirectory(t), officers, &recordingWriter{}, directTx{}, logger.NewNop())

		_, err := engine.Assign(context.Background(), newComplaint(t, vo.CategoryRoad), now)
		assert.True(t, apperrors.IsDependencyUnavailableError(err))
	})

	t.Run("complaint write fails", func(t *testing.T) {
		officers := newFakeOfficers(officer("r-1", "roads", true, 0))
		writer := &recordingWriter{err: errors.New("disk full")}
		engine := NewEngine(testDirectory(t), officers, writer, directTx{}, logger.NewNop())

		c := newComplaint(t, vo.CategoryRoad)
		_, err := engine.Assign(context.Background(), c, now)
		assert.True(t, apperrors.IsDependencyUnavailableError(err))
		assert.Equal(t, 0, officers.officers["r-1"].AssignedCount)

		assert.Equal(t, vo.StatusSubmitted, c.Status())
		assert.Nil(t, c.OfficerID())
		assert.Nil(t, c.DepartmentID())
		assert.Nil(t, c.AssignedAt())
		assert.Len(t, c.Timeline(), 1)
	})

	t.Run("load update fails after complaint write", func(t *testing.T) {
		officers := newFakeOfficers(officer("r-1", "roads", true, 0))
		officers.loadErr = errors.New("deadlock")
		engine := NewEngine(testDirectory(t), officers, &recordingWriter{}, directTx{}, logger.NewNop())

		c := newComplaint(t, vo.CategoryRoad)
		_, err := engine.Assign(context.Background(), c, now)
		assert.True(t, apperrors.IsDependencyUnavailableError(err))
		assert.Equal(t, vo.StatusSubmitted, c.Status())
		assert.False(t, c.IsAssigned())
	})
}

func TestAssign_CategoryWithoutDepartment(t *testing.T) {
	writer := &recordingWriter{}
	officers := newFakeOfficers(officer("r-1", "roads", true, 0))
	// A zero directory owns no categories; NewDirectory would refuse it.
	engine := NewEngine(&department.Directory{}, officers, writer, directTx{}, logger.NewNop())
	c := newComplaint(t, vo.CategoryRoad)

	got, err := engine.Assign(context.Background(), c, now)

	assert.Nil(t, got)
	assert.True(t, apperrors.IsNoDepartmentError(err))
	assert.Equal(t, vo.StatusSubmitted, c.Status())
	assert.Empty(t, writer.patches)
	assert.Equal(t, 0, officers.officers["r-1"].AssignedCount)
}

func TestAssignManually(t *testing.T) {
	officers := newFakeOfficers(
		officer("r-1", "roads", true, 0),
		officer("r-2", "roads", true, 4),
		officer("r-off", "roads", false, 0),
		officer("w-1", "water", true, 0),
	)
	engine := NewEngine(testDirectory(t), officers, &recordingWriter{}, directTx{}, logger.NewNop())

	t.Run("unknown department", func(t *testing.T) {
		_, err := engine.AssignManually(context.Background(), newComplaint(t, vo.CategoryRoad), "parks", "r-1", "", now)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("unknown officer", func(t *testing.T) {
		_, err := engine.AssignManually(context.Background(), newComplaint(t, vo.CategoryRoad), "roads", "ghost", "", now)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("officer from another department", func(t *testing.T) {
		_, err := engine.AssignManually(context.Background(), newComplaint(t, vo.CategoryRoad), "roads", "w-1", "", now)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("inactive officer", func(t *testing.T) {
		_, err := engine.AssignManually(context.Background(), newComplaint(t, vo.CategoryRoad), "roads", "r-off", "", now)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("reassignment moves load", func(t *testing.T) {
		c := newComplaint(t, vo.CategoryRoad)
		_, err := engine.AssignManually(context.Background(), c, "roads", "r-1", "", now)
		require.NoError(t, err)
		assert.Equal(t, 1, officers.officers["r-1"].AssignedCount)

		got, err := engine.AssignManually(context.Background(), c, "roads", "r-2", "Needs senior engineer", now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "r-2", got.ID)
		assert.Equal(t, 0, officers.officers["r-1"].AssignedCount)
		assert.Equal(t, 5, officers.officers["r-2"].AssignedCount)
		assert.True(t, c.AssignedOfficerIs("r-2"))
		timeline := c.Timeline()
		assert.Equal(t, "Needs senior engineer", timeline[len(timeline)-1].Note)
	})

	t.Run("resolved complaint rejected", func(t *testing.T) {
		c := newComplaint(t, vo.CategoryRoad)
		_, err := engine.AssignManually(context.Background(), c, "roads", "r-1", "", now)
		require.NoError(t, err)
		_, err = c.UpdateStatus(vo.StatusResolved, "done", nil, now)
		require.NoError(t, err)

		_, err = engine.AssignManually(context.Background(), c, "roads", "r-2", "", now)
		assert.True(t, apperrors.IsInvalidTransitionError(err))
	})
}
