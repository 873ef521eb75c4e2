package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
	// SubmitRateLimit caps complaint submissions per actor per minute.
	// Zero disables the limit. Only enforced when Redis is configured.
	SubmitRateLimit int `mapstructure:"submit_rate_limit"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds the MySQL DSN. Timestamps are parsed as UTC so stored
// millisecond values order the same everywhere.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a Redis host is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
}

type MediaConfig struct {
	Driver   string   `mapstructure:"driver"`
	LocalDir string   `mapstructure:"local_dir"`
	BaseURL  string   `mapstructure:"base_url"`
	S3       S3Config `mapstructure:"s3"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type NotificationConfig struct {
	RedisChannel      string      `mapstructure:"redis_channel"`
	SupervisorAddress string      `mapstructure:"supervisor_address"`
	Email             EmailConfig `mapstructure:"email"`
}

type PriorityConfig struct {
	SensitiveRadiusMeters float64 `mapstructure:"sensitive_radius_meters"`
	ClusterRadiusMeters   float64 `mapstructure:"cluster_radius_meters"`
	ClusterThreshold      int     `mapstructure:"cluster_threshold"`
	PendingHours          int     `mapstructure:"pending_hours"`
}

func (p *PriorityConfig) PendingDuration() time.Duration {
	return time.Duration(p.PendingHours) * time.Hour
}

type EscalationConfig struct {
	IntervalMinutes  int     `mapstructure:"interval_minutes"`
	MaxPerSecond     float64 `mapstructure:"max_per_second"`
	LockTTLSeconds   int     `mapstructure:"lock_ttl_seconds"`
	RunOnStartup     bool    `mapstructure:"run_on_startup"`
	SchedulerEnabled bool    `mapstructure:"scheduler_enabled"`
}

func (e *EscalationConfig) Interval() time.Duration {
	return time.Duration(e.IntervalMinutes) * time.Minute
}

func (e *EscalationConfig) LockTTL() time.Duration {
	return time.Duration(e.LockTTLSeconds) * time.Second
}

// NearbyConfig bounds the community map listing. RadiusMeters applies when
// the caller gives no radius.
type NearbyConfig struct {
	RadiusMeters    float64 `mapstructure:"radius_meters"`
	MaxRadiusMeters float64 `mapstructure:"max_radius_meters"`
}

type ReferenceDataConfig struct {
	Path string `mapstructure:"path"`
}

type IDConfig struct {
	NodeID int64 `mapstructure:"node_id"`
}
