// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Storage engine names accepted in database.engine.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Admin    AdminConfig    `koanf:"admin"`
	General  GeneralConfig  `koanf:"general"`
}

type ServerConfig struct {
	Host      string  `koanf:"host"`
	Port      int     `koanf:"port"`
	RateLimit float64 `koanf:"rate_limit"` // mutating requests per second, per client IP
	RateBurst int     `koanf:"rate_burst"`
}

type DatabaseConfig struct {
	Engine string `koanf:"engine"` // "postgres" or "sqlite"
	URL    string `koanf:"url"`    // postgres connection string
	Path   string `koanf:"path"`   // sqlite database file
}

type AdminConfig struct {
	// Hex SHA-512 digest of the admin bearer token. The plain token is
	// never stored anywhere.
	TokenDigest string `koanf:"token_digest"`
}

type GeneralConfig struct {
	Timezone string `koanf:"timezone"` // IANA name, drives the color scheme
}

// Options carries CLI overrides that survive config reloads.
type Options struct {
	ConfigPath string
	Port       int
	Engine     string
}

// ParseFlags validates CLI flags and returns the override set.
func ParseFlags(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("songvote", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "c", "", "Config file path (default: config.yaml)")
	fs.IntVar(&opts.Port, "p", 0, "Server port (overrides config)")
	fs.StringVar(&opts.Engine, "t", "", "Storage engine: sqlite or postgres (overrides config)")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = os.Getenv("CONFIG_PATH")
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.yaml"
	}

	return opts, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      5000,
			RateLimit: 5,
			RateBurst: 10,
		},
		Database: DatabaseConfig{
			Engine: EngineSQLite,
			Path:   "database.db",
		},
		General: GeneralConfig{
			Timezone: "UTC",
		},
	}
}

// envMappings translates flat environment variables to config paths.
// Unmapped variables are ignored so the process environment cannot
// pollute the config tree.
var envMappings = map[string]string{
	"host":               "server.host",
	"port":               "server.port",
	"rate_limit":         "server.rate_limit",
	"rate_burst":         "server.rate_burst",
	"database_type":      "database.engine",
	"database_url":       "database.url",
	"database_path":      "database.path",
	"admin_token_sha512": "admin.token_digest",
	"timezone":           "general.timezone",
}

// Load builds the configuration from three layers, lowest priority first:
// built-in defaults, the YAML config file (if it exists), and environment
// variables.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if _, err := os.Stat(opts.ConfigPath); err == nil {
		if err := k.Load(file.Provider(opts.ConfigPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", opts.ConfigPath, err)
		}
	}

	envProvider := env.Provider("", ".", func(key string) string {
		return envMappings[strings.ToLower(key)]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// CLI flags win over everything.
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.Engine != "" {
		cfg.Database.Engine = opts.Engine
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts of the config the server cannot run without.
func (c *Config) Validate() error {
	switch c.Database.Engine {
	case EnginePostgres:
		if c.Database.URL == "" {
			return errors.New("database.url required for the postgres engine (or DATABASE_URL env)")
		}
	case EngineSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path required for the sqlite engine (or DATABASE_PATH env)")
		}
	default:
		return fmt.Errorf("unknown database engine %q (want sqlite or postgres)", c.Database.Engine)
	}

	if c.Admin.TokenDigest == "" {
		return errors.New("admin.token_digest required (or ADMIN_TOKEN_SHA512 env)")
	}
	if len(c.Admin.TokenDigest) != 128 {
		return fmt.Errorf("admin.token_digest must be a hex SHA-512 digest (128 chars), got %d", len(c.Admin.TokenDigest))
	}

	if _, err := time.LoadLocation(c.General.Timezone); err != nil {
		return fmt.Errorf("invalid general.timezone %q: %w", c.General.Timezone, err)
	}

	return nil
}

// Location returns the configured timezone, falling back to UTC. Validate
// has already rejected unknown names, so the fallback only covers a zone
// database that changed underneath a running process.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Manager holds the active configuration and swaps it atomically on
// reload. Handlers read through Active() and never see a half-applied
// config.
type Manager struct {
	opts   Options
	active atomic.Pointer[Config]
}

// NewManager loads the initial configuration.
func NewManager(opts Options) (*Manager, error) {
	cfg, err := Load(opts)
	if err != nil {
		return nil, err
	}

	m := &Manager{opts: opts}
	m.active.Store(cfg)
	return m, nil
}

// Active returns the current configuration snapshot.
func (m *Manager) Active() *Config {
	return m.active.Load()
}

// Reload re-reads all config layers and swaps the active snapshot. On
// error the previous configuration stays active.
func (m *Manager) Reload() (*Config, error) {
	cfg, err := Load(m.opts)
	if err != nil {
		return nil, fmt.Errorf("config reload failed: %w", err)
	}
	m.active.Store(cfg)
	return cfg, nil
}
