package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultPort            = 8080
	DefaultDatabasePath    = "yearbook.db"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

const (
	// minEditTokenBytes keeps capability tokens at 128 bits or more.
	minEditTokenBytes     = 16
	defaultEditTokenBytes = 32
)

type Config struct {
	// http server
	Port            int           `env:"PORT" envDefault:"8080"`
	APIPrefix       string        `env:"API_PREFIX"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// database path (sqlite file)
	DatabasePath string `env:"DATABASE_PATH" envDefault:"yearbook.db"`

	// AdminPassword is the shared admin secret. Empty means admin routes
	// answer with a configuration error instead of allowing anything.
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// entropy of minted comment edit tokens, in bytes
	EditTokenBytes int `env:"EDIT_TOKEN_BYTES" envDefault:"32"`

	// logging
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// optional YAML fixture for the seed command
	SeedFile string `env:"SEED_FILE"`
}

// LoadConfig reads the configuration from the environment. Call
// godotenv.Load before it to pick up a local .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	if c.Port <= 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.EditTokenBytes == 0 {
		c.EditTokenBytes = defaultEditTokenBytes
	}
	if c.EditTokenBytes < minEditTokenBytes {
		return Config{}, fmt.Errorf("EDIT_TOKEN_BYTES must be at least %d, got %d", minEditTokenBytes, c.EditTokenBytes)
	}

	c.APIPrefix = strings.TrimRight(strings.TrimSpace(c.APIPrefix), "/")
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		c.APIPrefix = "/" + c.APIPrefix
	}

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins

	return c, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AdminConfigured reports whether an admin secret is present.
func (c Config) AdminConfigured() bool {
	return c.AdminPassword != ""
}
