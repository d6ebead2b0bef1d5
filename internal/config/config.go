package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultConfigFile     = "config.json"
	defaultServerAddress  = ":3847"
	defaultTimezone       = "UTC"
	defaultStaleAfterDays = 14
	defaultTodoItemLimit  = 10
	defaultReportTTL      = 60
)

// Config represents runtime configuration for the console server.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Insights    InsightsConfig            `json:"insights"`
	Fixtures    FixtureConfig             `json:"fixtures"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Log         LogConfig                 `json:"log"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	PublicBaseURL string `json:"public_base_url"`
	TemplatePath  string `json:"template_path"`
	ReportDelayMs int    `json:"report_delay_ms"`
	Timezone      string `json:"timezone"`
}

type InsightsConfig struct {
	StaleAfterDays int `json:"stale_after_days"`
	TodoItemLimit  int `json:"todo_item_limit"`
}

// FixtureConfig selects where the seed data comes from.
type FixtureConfig struct {
	Source string `json:"source"` // builtin | database
	Driver string `json:"driver"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Enabled          bool   `json:"enabled"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	DB               int    `json:"db"`
	ReportTTLMinutes int    `json:"report_ttl_minutes"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the provided path. An empty path means
// config.json in the working directory, which may be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()

	switch cfg.Fixtures.Source {
	case "builtin":
	case "database":
		if !isSQLite(cfg.Fixtures.Driver) && cfg.Fixtures.Driver != "mysql" {
			return nil, fmt.Errorf("unsupported fixture driver: %s", cfg.Fixtures.Driver)
		}
		dbCfg, ok := cfg.Databases[cfg.Fixtures.Driver]
		if !ok {
			return nil, fmt.Errorf("database config for %q not found", cfg.Fixtures.Driver)
		}
		if dbCfg.DSN != "" && dbCfg.DSN != ":memory:" && !filepath.IsAbs(dbCfg.DSN) && isSQLite(cfg.Fixtures.Driver) {
			dbCfg.DSN = filepath.Join(filepath.Dir(absPath), dbCfg.DSN)
			cfg.Databases[cfg.Fixtures.Driver] = dbCfg
		}
	default:
		return nil, fmt.Errorf("unknown fixture source: %s", cfg.Fixtures.Source)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BasicConfig.ServerAddress == "" {
		c.BasicConfig.ServerAddress = defaultServerAddress
	}
	if c.BasicConfig.Timezone == "" {
		c.BasicConfig.Timezone = defaultTimezone
	}
	if c.BasicConfig.ReportDelayMs < 0 {
		c.BasicConfig.ReportDelayMs = 0
	}
	if c.Insights.StaleAfterDays <= 0 {
		c.Insights.StaleAfterDays = defaultStaleAfterDays
	}
	if c.Insights.TodoItemLimit <= 0 {
		c.Insights.TodoItemLimit = defaultTodoItemLimit
	}
	if c.Fixtures.Source == "" {
		c.Fixtures.Source = "builtin"
	}
	if c.Fixtures.Driver == "" {
		c.Fixtures.Driver = "sqlite3"
	}
	if c.Redis.ReportTTLMinutes <= 0 {
		c.Redis.ReportTTLMinutes = defaultReportTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Location resolves the configured timezone used for hour/day bucketing.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.BasicConfig.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.BasicConfig.Timezone, err)
	}
	return loc, nil
}

// SetPort replaces the port part of the listen address.
func (c *Config) SetPort(port string) {
	c.BasicConfig.ServerAddress = ":" + port
}

// BaseURL is the API base injected into the console page.
func (c *Config) BaseURL() string {
	if c.BasicConfig.PublicBaseURL != "" {
		return c.BasicConfig.PublicBaseURL
	}
	_, port, err := net.SplitHostPort(c.BasicConfig.ServerAddress)
	if err != nil || port == "" {
		port = strings.TrimPrefix(defaultServerAddress, ":")
	}
	return "http://localhost:" + port
}

func (c *Config) ReportDelay() time.Duration {
	return time.Duration(c.BasicConfig.ReportDelayMs) * time.Millisecond
}

func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.Redis.ReportTTLMinutes) * time.Minute
}

func isSQLite(driver string) bool {
	return driver == "sqlite" || driver == "sqlite3"
}
