package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	FileName    = "config.yaml"
	EnvFileName = "todo.env"

	EnvLogLevel        = "TODO_LOG_LEVEL"
	EnvQuotaBytes      = "TODO_QUOTA_BYTES"
	EnvNotifyInterval  = "TODO_NOTIFY_INTERVAL"
	EnvDefaultCategory = "TODO_DEFAULT_CATEGORY"
)

type Config struct {
	LogLevel        string `yaml:"log_level,omitempty"`
	QuotaBytes      int64  `yaml:"quota_bytes,omitempty"`
	NotifyInterval  string `yaml:"notify_interval,omitempty"`
	DefaultCategory string `yaml:"default_category,omitempty"`
}

// Load reads dataDir/config.yaml and applies overrides from dataDir/todo.env
// and then the process environment. A missing file yields an empty config.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	env, err := godotenv.Read(filepath.Join(dataDir, EnvFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", EnvFileName, err)
	}
	if env == nil {
		env = make(map[string]string)
	}
	for _, k := range []string{EnvLogLevel, EnvQuotaBytes, EnvNotifyInterval, EnvDefaultCategory} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	if err := cfg.apply(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(env map[string]string) error {
	if v, ok := env[EnvLogLevel]; ok {
		c.LogLevel = v
	}
	if v, ok := env[EnvQuotaBytes]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvQuotaBytes, err)
		}
		c.QuotaBytes = n
	}
	if v, ok := env[EnvNotifyInterval]; ok {
		c.NotifyInterval = v
	}
	if v, ok := env[EnvDefaultCategory]; ok {
		c.DefaultCategory = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level, info when unset.
func (c *Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("parsing log_level: %w", err)
	}
	return lvl, nil
}

// Interval returns the due-date check interval, zero when unset.
func (c *Config) Interval() (time.Duration, error) {
	if c.NotifyInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.NotifyInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing notify_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("notify_interval must be positive")
	}
	return d, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
