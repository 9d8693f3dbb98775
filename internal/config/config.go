// Package config loads process configuration.
//
// Values are layered, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by CONFIG_FILE, if set
//  3. environment variables (PORT, DATABASE_URL, ...)
//
// A .env file in the working directory is read into the environment before
// layering.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string `koanf:"port"`

	// DBDriver selects the gorm dialector: postgres or sqlite.
	DBDriver string `koanf:"db_driver"`
	// DatabaseURL is the DSN handed to the driver. For sqlite it is a file
	// path or a file: URI.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// GinMode is passed to gin.SetMode: debug, release or test.
	GinMode string `koanf:"gin_mode"`

	// NodeCacheSize bounds the node lookup cache. Zero disables it.
	NodeCacheSize int           `koanf:"node_cache_size"`
	NodeCacheTTL  time.Duration `koanf:"node_cache_ttl"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Environment variables read by Load. Anything else in the environment is
// ignored.
var envKeys = map[string]string{
	"PORT":             "port",
	"DB_DRIVER":        "db_driver",
	"DATABASE_URL":     "database_url",
	"LOG_LEVEL":        "log_level",
	"GIN_MODE":         "gin_mode",
	"NODE_CACHE_SIZE":  "node_cache_size",
	"NODE_CACHE_TTL":   "node_cache_ttl",
	"SHUTDOWN_TIMEOUT": "shutdown_timeout",
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:            "8080",
		DBDriver:        DriverPostgres,
		DatabaseURL:     "host=localhost user=postgres password=postgres dbname=mcpserver port=5432 sslmode=disable",
		LogLevel:        "info",
		GinMode:         "release",
		NodeCacheSize:   500,
		NodeCacheTTL:    10 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds a Config from defaults, the optional CONFIG_FILE and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		return envKeys[strings.ToUpper(s)]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port must not be empty")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported gin_mode %q", c.GinMode)
	}
	if c.DatabaseURL == "" {
		return errors.New("database_url must not be empty")
	}
	if c.NodeCacheSize < 0 {
		return fmt.Errorf("node_cache_size must not be negative, got %d", c.NodeCacheSize)
	}
	if c.NodeCacheTTL < 0 {
		return fmt.Errorf("node_cache_ttl must not be negative, got %s", c.NodeCacheTTL)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
