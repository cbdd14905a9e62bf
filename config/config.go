package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	HTTP          HTTPConfig          `yaml:"http"`
	League        LeagueConfig        `yaml:"league"`
	Queue         QueueConfig         `yaml:"queue"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatabaseConfig holds the store DSN. postgres:// DSNs use pgdriver;
// sqlite: and file: DSNs use the embedded sqlite driver.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// NATSConfig holds the optional event fan-out target. An empty URL disables it.
type NATSConfig struct {
	URL      string `yaml:"url" env:"NATS_URL"`
	NKeySeed string `yaml:"nkey_seed" env:"NATS_NKEY_SEED"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
}

// LeagueConfig holds season rules.
type LeagueConfig struct {
	DraftRounds int   `yaml:"draft_rounds" env:"LEAGUE_DRAFT_ROUNDS"`
	SeedPreview *bool `yaml:"seed_preview" env:"LEAGUE_SEED_PREVIEW"`
}

// QueueConfig switches persistence to asynchronous River jobs. Requires a
// postgres DSN.
type QueueConfig struct {
	Enabled bool `yaml:"enabled" env:"QUEUE_ENABLED"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" env:"LOG_FORMAT"`
	MetricsAddress string `yaml:"metrics_address" env:"METRICS_ADDRESS"`
	Environment    string `yaml:"environment" env:"ENV"`
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
}

// LoadConfig reads the YAML file, overlays environment variables and fills
// defaults. A missing file means environment only.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.League.DraftRounds == 0 {
		c.League.DraftRounds = 3
	}
	if c.League.SeedPreview == nil {
		seed := true
		c.League.SeedPreview = &seed
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 10
	}
	if c.HTTP.RateBurst == 0 {
		c.HTTP.RateBurst = 20
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "text"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "bakeoff-league"
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.League.DraftRounds <= 0 {
		errs = append(errs, fmt.Errorf("league.draft_rounds must be positive, got %d", c.League.DraftRounds))
	}
	if c.Queue.Enabled && !c.IsPostgres() {
		errs = append(errs, errors.New("queue.enabled requires a postgres database"))
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		errs = append(errs, errors.New("http rate limits must not be negative"))
	}
	switch c.Observability.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("observability.log_format must be text or json, got %q", c.Observability.LogFormat))
	}
	return errors.Join(errs...)
}

// IsPostgres reports whether the DSN targets Postgres.
func (c *Config) IsPostgres() bool {
	dsn := strings.ToLower(c.Database.DSN)
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// SeedPreview reports whether the preview league stays listed.
func (c *Config) SeedPreview() bool {
	return c.League.SeedPreview == nil || *c.League.SeedPreview
}
