package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/contracts"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8085"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds Redis connection configuration. An empty URL disables the Redis sinks.
type RedisConfig struct {
	URL         string        `env:"URL"`
	Password    string        `env:"PASSWORD"`
	DB          int           `env:"DB" envDefault:"0"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"10m"`
}

// Enabled reports whether Redis sinks should be wired
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// FeedConfig holds ESPN client configuration
type FeedConfig struct {
	BaseURL      string        `env:"BASE_URL" envDefault:"https://site.api.espn.com/apis/site/v2/sports"`
	SportPath    string        `env:"SPORT_PATH" envDefault:"football/nfl"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"` // zero takes the sport default
	Attempts     int           `env:"ATTEMPTS" envDefault:"2"`
	RetryDelay   time.Duration `env:"RETRY_DELAY" envDefault:"500ms"`
}

// PollConfig holds the reconciliation cadence
type PollConfig struct {
	Interval time.Duration `env:"INTERVAL"` // zero takes the sport default
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Encoding    string `env:"ENCODING" envDefault:"json"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig `envPrefix:"SERVER_"`
	Redis  RedisConfig  `envPrefix:"REDIS_"`
	Feed   FeedConfig   `envPrefix:"ESPN_"`
	Poll   PollConfig   `envPrefix:"POLL_"`
	Log    LogConfig    `envPrefix:"LOG_"`
}

// Load reads an optional .env file, then parses the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("SERVER_ADDR must not be empty")
	}
	if c.Feed.SportPath == "" {
		return errors.New("ESPN_SPORT_PATH must not be empty")
	}
	if c.Poll.Interval != 0 && c.Poll.Interval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s, got %s", c.Poll.Interval)
	}
	if c.Feed.FetchTimeout < 0 {
		return fmt.Errorf("ESPN_FETCH_TIMEOUT must not be negative, got %s", c.Feed.FetchTimeout)
	}
	if c.Feed.Attempts < 1 {
		return fmt.Errorf("ESPN_ATTEMPTS must be at least 1, got %d", c.Feed.Attempts)
	}
	return nil
}

// ApplyPollingDefaults fills the cadence values the environment left unset
func (c *Config) ApplyPollingDefaults(defaults contracts.PollingConfig) {
	if c.Poll.Interval == 0 {
		c.Poll.Interval = defaults.Interval
	}
	if c.Feed.FetchTimeout == 0 {
		c.Feed.FetchTimeout = defaults.FetchTimeout
	}
}
