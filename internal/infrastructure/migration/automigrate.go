package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/infrastructure/persistence/models"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ComplaintModel{},
		&models.ComplaintTimelineModel{},
		&models.OfficerModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the persistence models.
// It is meant for throwaway development databases.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) Strategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("starting gorm auto migration", "models_count", len(AutoMigrateModels()))
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
