package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/infrastructure/migration"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

var testNow = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

// setupTestDB returns a fresh in-memory database migrated with the
// embedded goose scripts.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	strategy, err := migration.NewGooseStrategy("sqlite", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(db))

	return db
}

// setupMockDB returns a gorm handle backed by sqlmock speaking the MySQL dialect.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	return db, mock
}

func newTestComplaint(t *testing.T, id, userID string, category vo.Category, loc *geo.Point, createdAt time.Time) *complaint.Complaint {
	t.Helper()
	c, err := complaint.NewComplaint(id, userID, category, "Broken "+category.String(), loc, "Ward 5", nil, vo.PriorityNormal, nil, createdAt)
	require.NoError(t, err)
	return c
}
