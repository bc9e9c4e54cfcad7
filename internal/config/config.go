package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// Config is the full service configuration loaded from config.toml.
type Config struct {
	Server     Server     `toml:"server"`
	Database   Database   `toml:"database"`
	Logs       Logs       `toml:"logs"`
	Metrics    Metrics    `toml:"metrics"`
	RateLimit  RateLimit  `toml:"ratelimit"`
	Scheduling Scheduling `toml:"scheduling"`
	Notify     Notify     `toml:"notify"`
}

type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN assembles the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RateLimit struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Notify configures the outbound notification gateway.
type Notify struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Scheduling holds the planner and conflict-detector knobs.
type Scheduling struct {
	// BlockingStatuses lists the booking statuses that occupy a slot in
	// conflict checks. Empty means every status blocks.
	BlockingStatuses []string `toml:"blocking_statuses"`

	StepGranularityMinutes int `toml:"step_granularity_minutes"`
	LeadTimeMinutes        int `toml:"lead_time_minutes"`
	SearchWindowDays       int `toml:"search_window_days"`
	MaxProposals           int `toml:"max_proposals"`

	SnapshotCacheTTLSeconds int `toml:"snapshot_cache_ttl_seconds"`
}

// BlockingStatusList converts the configured status names to domain values.
func (s Scheduling) BlockingStatusList() []domain.BookingStatus {
	out := make([]domain.BookingStatus, 0, len(s.BlockingStatuses))
	for _, raw := range s.BlockingStatuses {
		out = append(out, domain.BookingStatus(raw))
	}
	return out
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "anx-scheduling-service"
	}
	if c.Scheduling.StepGranularityMinutes == 0 {
		c.Scheduling.StepGranularityMinutes = domain.DefaultStepGranularityMinutes
	}
	if c.Scheduling.LeadTimeMinutes == 0 {
		c.Scheduling.LeadTimeMinutes = domain.DefaultLeadTimeMinutes
	}
	if c.Scheduling.SearchWindowDays == 0 {
		c.Scheduling.SearchWindowDays = domain.DefaultSearchWindowDays
	}
	if c.Scheduling.MaxProposals == 0 {
		c.Scheduling.MaxProposals = domain.DefaultMaxProposals
	}
	if c.Scheduling.SnapshotCacheTTLSeconds == 0 {
		c.Scheduling.SnapshotCacheTTLSeconds = 60
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 5
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and dbname are required")
	}
	if c.Scheduling.StepGranularityMinutes < 0 {
		return fmt.Errorf("step_granularity_minutes must be positive")
	}
	for _, raw := range c.Scheduling.BlockingStatuses {
		switch domain.BookingStatus(raw) {
		case domain.StatusBooked, domain.StatusInProgress, domain.StatusCompleted,
			domain.StatusCancelled, domain.StatusNoShow:
		default:
			return fmt.Errorf("unknown blocking status %q", raw)
		}
	}
	return nil
}
