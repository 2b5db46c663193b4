// Package config loads plantbot settings from a .env file, a YAML file and
// PLANTBOT_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/plantbot/internal/parse"
)

// DefaultPath is the YAML file read when no path is given.
const DefaultPath = "plantbot.yaml"

// Storage backends.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// LogConfig selects log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives a copy of every log line. /check_logs tails it.
	File string `yaml:"file"`
}

// Config is the full runtime configuration.
type Config struct {
	DataDir      string    `yaml:"data_dir"`
	Backend      string    `yaml:"backend"`
	Database     string    `yaml:"database"`
	DateFormat   string    `yaml:"date_format"`
	AllowedUsers []int64   `yaml:"allowed_users"`
	LocalUser    int64     `yaml:"local_user"`
	RepoDir      string    `yaml:"repo_dir"`
	Log          LogConfig `yaml:"log"`
}

// Default returns the built-in settings. AllowedUsers is empty and must be
// configured.
func Default() Config {
	return Config{
		DataDir:    "data",
		Backend:    BackendFiles,
		DateFormat: parse.DefaultDateFormat,
		RepoDir:    ".",
		Log:        LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration. A missing .env or YAML file is not an error.
func Load(path string) (*Config, error) {
	// Real environment variables win over .env entries.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = getEnv("PLANTBOT_CONFIG", DefaultPath)
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, "plants.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.DataDir = getEnv("PLANTBOT_DATA_DIR", c.DataDir)
	c.Backend = getEnv("PLANTBOT_BACKEND", c.Backend)
	c.Database = getEnv("PLANTBOT_DATABASE", c.Database)
	c.DateFormat = getEnv("PLANTBOT_DATE_FORMAT", c.DateFormat)
	c.RepoDir = getEnv("PLANTBOT_REPO_DIR", c.RepoDir)
	c.Log.Level = getEnv("PLANTBOT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("PLANTBOT_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnv("PLANTBOT_LOG_FILE", c.Log.File)

	if v := os.Getenv("PLANTBOT_ALLOWED_USERS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("PLANTBOT_ALLOWED_USERS: %w", err)
		}
		c.AllowedUsers = ids
	}
	if v := os.Getenv("PLANTBOT_LOCAL_USER"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("PLANTBOT_LOCAL_USER: %w", err)
		}
		c.LocalUser = id
	}
	return nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFiles, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFiles, BackendSQLite)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if len(c.AllowedUsers) == 0 {
		return errors.New("allowed_users must list at least one user id")
	}
	for _, part := range []string{"DD", "MM", "YY"} {
		if !strings.Contains(c.DateFormat, part) {
			return fmt.Errorf("date_format %q is missing %s", c.DateFormat, part)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIDs reads a comma separated list of user ids.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
