package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Spooler SpoolerConfig `yaml:"spooler"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
	Webhook WebhookConfig `yaml:"webhook"`
}

type SpoolerConfig struct {
	DocumentName       string `yaml:"document_name"`
	Datatype           string `yaml:"datatype"`
	IncludeConnections bool   `yaml:"include_connections"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type WebhookConfig struct {
	URL        string        `yaml:"url"`
	Secret     string        `yaml:"secret"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retry_count"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

func defaults() *Config {
	return &Config{
		Spooler: SpoolerConfig{
			DocumentName:       "ZPL-Label",
			Datatype:           "RAW",
			IncludeConnections: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "./rawspool.db",
		},
		Webhook: WebhookConfig{
			Timeout:    10 * time.Second,
			RetryCount: 3,
			RetryDelay: time.Second,
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// Load reads configPath on top of the defaults. A missing file is not an
// error.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with RAWSPOOL_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("RAWSPOOL_DOCUMENT_NAME"); v != "" {
		c.Spooler.DocumentName = v
	}

	if v := os.Getenv("RAWSPOOL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv("RAWSPOOL_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv("RAWSPOOL_HISTORY_PATH"); v != "" {
		c.History.Path = v
		c.History.Enabled = true
	}

	if v := os.Getenv("RAWSPOOL_HISTORY"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.History.Enabled = enabled
		}
	}

	if v := os.Getenv("RAWSPOOL_WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}

	if v := os.Getenv("RAWSPOOL_WEBHOOK_SECRET"); v != "" {
		c.Webhook.Secret = v
	}
}

func (c *Config) Validate() error {
	if c.Spooler.DocumentName == "" {
		return fmt.Errorf("spooler document name is required")
	}

	if c.Spooler.Datatype == "" {
		return fmt.Errorf("spooler datatype is required")
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}

	if c.Webhook.Timeout < 0 {
		return fmt.Errorf("webhook timeout must be non-negative")
	}

	if c.Webhook.RetryCount < 0 {
		return fmt.Errorf("webhook retry count must be non-negative")
	}

	if c.Webhook.RetryDelay < 0 {
		return fmt.Errorf("webhook retry delay must be non-negative")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}

	return nil
}
