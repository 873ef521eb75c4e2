package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/civictrack/civictrack/internal/shared/config"
)

type Config struct {
	Server        sharedConfig.ServerConfig        `mapstructure:"server"`
	Database      sharedConfig.DatabaseConfig      `mapstructure:"database"`
	Logger        sharedConfig.LoggerConfig        `mapstructure:"logger"`
	Redis         sharedConfig.RedisConfig         `mapstructure:"redis"`
	Media         sharedConfig.MediaConfig         `mapstructure:"media"`
	Notification  sharedConfig.NotificationConfig  `mapstructure:"notification"`
	Priority      sharedConfig.PriorityConfig      `mapstructure:"priority"`
	Escalation    sharedConfig.EscalationConfig    `mapstructure:"escalation"`
	Nearby        sharedConfig.NearbyConfig        `mapstructure:"nearby"`
	ReferenceData sharedConfig.ReferenceDataConfig `mapstructure:"reference_data"`
	ID            sharedConfig.IDConfig            `mapstructure:"id"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (or configPath when given) and overlays
// CIVICTRACK_* environment variables. A missing config file is not an error;
// defaults plus environment are enough to boot a development instance.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("CIVICTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.submit_rate_limit", 10)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "civictrack_dev")
	v.SetDefault("database.sqlite_path", "civictrack.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("media.driver", "local")
	v.SetDefault("media.local_dir", "./data/media")
	v.SetDefault("media.base_url", "/media")
	v.SetDefault("media.s3.region", "ap-south-1")
	v.SetDefault("media.s3.prefix", "civictrack/")

	v.SetDefault("notification.redis_channel", "civictrack:notifications")
	v.SetDefault("notification.supervisor_address", "")
	v.SetDefault("notification.email.smtp_host", "localhost")
	v.SetDefault("notification.email.smtp_port", 1025)
	v.SetDefault("notification.email.from_address", "noreply@civictrack.local")
	v.SetDefault("notification.email.from_name", "CivicTrack")

	v.SetDefault("priority.sensitive_radius_meters", 500)
	v.SetDefault("priority.cluster_radius_meters", 1000)
	v.SetDefault("priority.cluster_threshold", 3)
	v.SetDefault("priority.pending_hours", 48)

	v.SetDefault("escalation.interval_minutes", 60)
	v.SetDefault("escalation.max_per_second", 20)
	v.SetDefault("escalation.lock_ttl_seconds", 600)
	v.SetDefault("escalation.run_on_startup", true)
	v.SetDefault("escalation.scheduler_enabled", true)

	v.SetDefault("nearby.radius_meters", 5000)
	v.SetDefault("nearby.max_radius_meters", 25000)

	v.SetDefault("reference_data.path", "")

	v.SetDefault("id.node_id", 1)
}
