package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/mappers"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/models"
	"github.com/civictrack/civictrack/internal/shared/db"
	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
)

type OfficerRepository struct {
	db *gorm.DB
}

func NewOfficerRepository(db *gorm.DB) *OfficerRepository {
	return &OfficerRepository{db: db}
}

func (r *OfficerRepository) ListActiveByDepartment(ctx context.Context, departmentID string) ([]*department.Officer, error) {
	var rows []models.OfficerModel
	if err := db.Conn(ctx, r.db).
		Where("department_id = ? AND active = ?", departmentID, true).
		Order("assigned_count ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.WrapDependency("failed to list officers", err)
	}
	return mappers.OfficersToDomain(rows), nil
}

func (r *OfficerRepository) Get(ctx context.Context, id string) (*department.Officer, error) {
	var model models.OfficerModel
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapDependency("failed to find officer", err)
	}
	return mappers.OfficerToDomain(&model), nil
}

// AdjustLoad applies delta in SQL so concurrent adjustments do not overwrite
// each other.
func (r *OfficerRepository) AdjustLoad(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		return nil
	}
	expr := gorm.Expr("assigned_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN assigned_count + ? < 0 THEN 0 ELSE assigned_count + ? END", delta, delta)
	}

	result := db.Conn(ctx, r.db).
		Model(&models.OfficerModel{}).
		Where("id = ?", id).
		Update("assigned_count", expr)
	if result.Error != nil {
		return apperrors.WrapDependency("failed to adjust officer load", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, id)
	}
	return nil
}

// ensureExists tells a missing officer apart from an update that changed
// nothing. MySQL counts changed rows, so a decrement clamped at zero affects none.
func (r *OfficerRepository) ensureExists(ctx context.Context, id string) error {
	var count int64
	err := db.Conn(ctx, r.db).
		Model(&models.OfficerModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return apperrors.WrapDependency("failed to look up officer", err)
	}
	if count == 0 {
		return apperrors.NewNotFoundError("officer not found", id)
	}
	return nil
}

// Save inserts the officer or updates its profile. An existing officer's
// load is left as stored.
func (r *OfficerRepository) Save(ctx context.Context, officer *department.Officer) error {
	model := mappers.OfficerToModel(officer)
	err := db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "department_id", "active", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return apperrors.WrapDependency("failed to save officer", err)
	}
	return nil
}

func (r *OfficerRepository) List(ctx context.Context) ([]*department.Officer, error) {
	var rows []models.OfficerModel
	if err := db.Conn(ctx, r.db).Order("department_id ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.WrapDependency("failed to list officers", err)
	}
	return mappers.OfficersToDomain(rows), nil
}
