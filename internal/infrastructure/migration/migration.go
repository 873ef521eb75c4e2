package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/shared/logger"
)

// Manager runs the configured migration strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for every environment except development, which
// uses gorm AutoMigrate unless useScripts is set.
func NewManager(environment, driver string, useScripts bool, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	if environment == "development" && !useScripts {
		strategy = NewGormAutoMigrateStrategy(log)
	} else {
		scripted, err := NewGooseStrategy(driver, log)
		if err != nil {
			return nil, err
		}
		strategy = scripted
	}
	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
