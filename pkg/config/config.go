package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all spendmeter configuration. It is passed explicitly into
// each component so tests can isolate storage locations.
type Config struct {
	DataDir       string        `yaml:"data_dir"`
	RetentionDays int           `yaml:"retention_days"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	// Precision is the number of decimal places kept for cost figures.
	Precision int `yaml:"precision"`
	// LockTimeout bounds advisory lock acquisition. Zero blocks forever.
	LockTimeout time.Duration `yaml:"lock_timeout"`
	Budget      BudgetConfig  `yaml:"budget"`
	Audit       AuditConfig   `yaml:"audit"`
}

// BudgetConfig defines spend limits per aggregation window. Zero values
// mean no limit for that window.
type BudgetConfig struct {
	Enabled bool    `yaml:"enabled"`
	Hourly  float64 `yaml:"hourly"`
	Daily   float64 `yaml:"daily"`
	Weekly  float64 `yaml:"weekly"`
}

// AuditConfig controls the SQLite charge log.
type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	dataDir := ".spendmeter"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".spendmeter")
	}
	return &Config{
		DataDir:       dataDir,
		RetentionDays: 30,
		SessionTTL:    24 * time.Hour,
		Precision:     6,
		LockTimeout:   10 * time.Second,
		Audit: AuditConfig{
			RetentionDays: 90,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// A missing file is not an error; defaults apply. A .env file in the
// working directory is loaded first, if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment overrides on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPENDMETER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// HourlyPath is the canonical hourly-bucket document.
func (c *Config) HourlyPath() string {
	return filepath.Join(c.DataDir, "hourly.json")
}

// SessionsPath is the session-ledger document.
func (c *Config) SessionsPath() string {
	return filepath.Join(c.DataDir, "sessions.json")
}

// LegacyDailyPath is the pre-hourly daily store, read only by the migrator.
func (c *Config) LegacyDailyPath() string {
	return filepath.Join(c.DataDir, "daily.json")
}

// AuditDBPath resolves the charge log location, defaulting into DataDir.
func (c *Config) AuditDBPath() string {
	if c.Audit.DBPath != "" {
		return c.Audit.DBPath
	}
	return filepath.Join(c.DataDir, "charges.db")
}
