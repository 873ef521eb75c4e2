package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/domain/department"
	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
)

func seedOfficers(t *testing.T, repo *OfficerRepository, officers ...*department.Officer) {
	t.Helper()
	for _, o := range officers {
		require.NoError(t, repo.Save(context.Background(), o))
	}
}

func newOfficer(t *testing.T, id, dept string, active bool) *department.Officer {
	t.Helper()
	o, err := department.NewOfficer(id, "Officer "+id, id+"@city.gov", dept, active)
	require.NoError(t, err)
	return o
}

func TestOfficerRepository_ListActiveByDepartment(t *testing.T) {
	repo := NewOfficerRepository(setupTestDB(t))
	ctx := context.Background()

	seedOfficers(t, repo,
		newOfficer(t, "r-3", "roads", true),
		newOfficer(t, "r-1", "roads", true),
		newOfficer(t, "r-2", "roads", true),
		newOfficer(t, "r-off", "roads", false),
		newOfficer(t, "w-1", "water", true),
	)
	require.NoError(t, repo.AdjustLoad(ctx, "r-1", 2))
	require.NoError(t, repo.AdjustLoad(ctx, "r-3", 1))

	list, err := repo.ListActiveByDepartment(ctx, "roads")
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"r-2", "r-3", "r-1"}, ids)
	assert.Equal(t, 2, list[2].AssignedCount)
}

func TestOfficerRepository_AdjustLoad(t *testing.T) {
	repo := NewOfficerRepository(setupTestDB(t))
	ctx := context.Background()
	seedOfficers(t, repo, newOfficer(t, "r-1", "roads", true))

	require.NoError(t, repo.AdjustLoad(ctx, "r-1", 1))
	require.NoError(t, repo.AdjustLoad(ctx, "r-1", -3))

	got, err := repo.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.AssignedCount, "load is floored at zero")

	err = repo.AdjustLoad(ctx, "ghost", 1)
	assert.True(t, apperrors.IsNotFoundError(err))

	assert.NoError(t, repo.AdjustLoad(ctx, "ghost", 0))
}

func TestOfficerRepository_SaveKeepsLoad(t *testing.T) {
	repo := NewOfficerRepository(setupTestDB(t))
	ctx := context.Background()
	seedOfficers(t, repo, newOfficer(t, "r-1", "roads", true))
	require.NoError(t, repo.AdjustLoad(ctx, "r-1", 4))

	updated := newOfficer(t, "r-1", "roads", false)
	updated.Name = "Asha Verma"
	require.NoError(t, repo.Save(ctx, updated))

	got, err := repo.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", got.Name)
	assert.False(t, got.Active)
	assert.Equal(t, 4, got.AssignedCount)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOfficerRepository_GetMissing(t *testing.T) {
	repo := NewOfficerRepository(setupTestDB(t))

	got, err := repo.Get(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestOfficerRepository_DriverFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewOfficerRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `officers`").WillReturnError(errors.New("too many connections"))

	_, err := repo.ListActiveByDepartment(context.Background(), "roads")

	assert.True(t, apperrors.IsDependencyUnavailableError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfficerRepository_AdjustLoadAtZeroUnderMySQL(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewOfficerRepository(gdb)
	ctx := context.Background()

	t.Run("clamped decrement of an idle officer succeeds", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `officers`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `officers`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

		assert.NoError(t, repo.AdjustLoad(ctx, "r-1", -1))
	})

	t.Run("missing officer is not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `officers`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `officers`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		err := repo.AdjustLoad(ctx, "ghost", -1)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
