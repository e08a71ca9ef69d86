// Package config loads service configuration from YAML or TOML files and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http" toml:"http"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Events   EventsConfig   `yaml:"events" toml:"events"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" toml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" toml:"driver"`
	DSN             string        `yaml:"dsn" toml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// EventsConfig selects the item event publisher: noop or log.
type EventsConfig struct {
	Publisher string `yaml:"publisher" toml:"publisher"`
}

var searchPaths = []string{"todo.yaml", "todo.yml", "todo.toml", ".todo.yaml", ".todo.toml"}

var drivers = []string{"sqlite3", "mysql", "postgres", "memory"}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Database: DatabaseConfig{
			Driver:          "sqlite3",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 10 * time.Minute,
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Events: EventsConfig{Publisher: "noop"},
	}
}

// DefaultDSN is the DSN used for a driver when none is configured.
func DefaultDSN(driver string) string {
	switch driver {
	case "mysql":
		return "root:123456@tcp(127.0.0.1:3306)/todo?parseTime=true"
	case "postgres":
		return "postgres://postgres@127.0.0.1:5432/todo?sslmode=disable"
	case "sqlite3":
		return "todo.db"
	}
	return ""
}

// Load reads path (or the first file found in the search paths when path
// is empty), then applies environment overrides and validates. A STORE_DSN
// with no driver configured anywhere selects mysql.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TODO_CONFIG")
	}
	if path == "" {
		path = find()
	}

	cfg := Default()
	cfg.Database.Driver = ""
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = Default().Database.Driver
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = DefaultDSN(cfg.Database.Driver)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func find() string {
	for _, loc := range searchPaths {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TODO_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("STORE_DSN"); v != "" {
		cfg.Database.DSN = v
		if cfg.Database.Driver == "" {
			cfg.Database.Driver = "mysql"
		}
	}
	if v := os.Getenv("TODO_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if !contains(drivers, c.Database.Driver) {
		return fmt.Errorf("database.driver %q: must be one of %v", c.Database.Driver, drivers)
	}
	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	switch c.Events.Publisher {
	case "", "noop", "log":
	default:
		return fmt.Errorf("events.publisher %q: must be noop or log", c.Events.Publisher)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	return nil
}

// Save writes cfg as YAML or TOML depending on the extension of path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	var buf strings.Builder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		buf.Write(data)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
