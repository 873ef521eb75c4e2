// Package clienv loads configuration, logging and the database for CLI commands.
package clienv

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/infrastructure/config"
	"github.com/civictrack/civictrack/internal/infrastructure/database"
	"github.com/civictrack/civictrack/internal/shared/constants"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// Env is what every command needs before doing real work.
type Env struct {
	Name   string
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
}

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flag string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flag
}

// GinMode maps an environment name onto a gin mode.
func GinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}

// Load reads the config and initializes the process logger.
func Load(environment, configPath string) (*Env, error) {
	cfg, err := config.Load(environment, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(environment)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Env{
		Name:   environment,
		Config: cfg,
		Logger: logger.NewLogger(),
	}, nil
}

// LoadWithDatabase is Load followed by opening the configured database.
func LoadWithDatabase(environment, configPath string) (*Env, error) {
	e, err := Load(environment, configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(&e.Config.Database, e.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	e.DB = db
	return e, nil
}

// Close releases the database and flushes the logger.
func (e *Env) Close() {
	if e.DB != nil {
		if err := database.Close(e.DB); err != nil {
			e.Logger.Warnw("failed to close database", "error", err)
		}
	}
	_ = logger.Sync()
}
