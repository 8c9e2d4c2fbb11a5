// Package config provides configuration loading for cookiz.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete cookiz configuration.
type Config struct {
	// DBPath is the SQLite event store (empty = store.DefaultDBPath).
	DBPath string `yaml:"db_path"`
	// CatalogDir holds user game definitions (*.yaml) layered over the built-in catalog.
	CatalogDir string       `yaml:"catalog_dir"`
	Log        LogConfig    `yaml:"log"`
	Engine     EngineConfig `yaml:"engine"`
	LLM        LLMConfig    `yaml:"llm"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	// File is the log destination; "-" disables logging.
	File string `yaml:"file"`
}

// EngineConfig tunes the game session engine.
type EngineConfig struct {
	SuccessDelay time.Duration `yaml:"success_delay"`
	ErrorDelay   time.Duration `yaml:"error_delay"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// LLMConfig selects the provider used by the game generator. API keys stay
// in the environment.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			SuccessDelay: 1500 * time.Millisecond,
			ErrorDelay:   1000 * time.Millisecond,
			TickInterval: time.Second,
		},
		LLM: LLMConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.SuccessDelay <= 0 {
		errs = append(errs, errors.New("engine.success_delay must be positive"))
	}
	if c.Engine.ErrorDelay <= 0 {
		errs = append(errs, errors.New("engine.error_delay must be positive"))
	}
	if c.Engine.ErrorDelay > c.Engine.SuccessDelay {
		errs = append(errs, errors.New("engine.error_delay must not exceed engine.success_delay"))
	}
	if c.Engine.TickInterval <= 0 {
		errs = append(errs, errors.New("engine.tick_interval must be positive"))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}
	switch c.LLM.Provider {
	case "", "anthropic", "openai", "gemini", "openrouter", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Merge overlays the non-zero values of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.CatalogDir != "" {
		c.CatalogDir = other.CatalogDir
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	if other.Engine.SuccessDelay != 0 {
		c.Engine.SuccessDelay = other.Engine.SuccessDelay
	}
	if other.Engine.ErrorDelay != 0 {
		c.Engine.ErrorDelay = other.Engine.ErrorDelay
	}
	if other.Engine.TickInterval != 0 {
		c.Engine.TickInterval = other.Engine.TickInterval
	}

	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Timeout != 0 {
		c.LLM.Timeout = other.LLM.Timeout
	}
}

// ApplyEnv overrides fields from COOKIZ_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("COOKIZ_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("COOKIZ_CATALOG_DIR"); v != "" {
		c.CatalogDir = v
	}
	if v := getenv("COOKIZ_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("COOKIZ_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("COOKIZ_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"COOKIZ_SUCCESS_DELAY", &c.Engine.SuccessDelay},
		{"COOKIZ_ERROR_DELAY", &c.Engine.ErrorDelay},
		{"COOKIZ_TICK_INTERVAL", &c.Engine.TickInterval},
		{"COOKIZ_LLM_TIMEOUT", &c.LLM.Timeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}
