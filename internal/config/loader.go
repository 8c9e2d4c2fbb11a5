package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// UserConfigFile is the user-level config file name under the config dir.
const UserConfigFile = "config.yaml"

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger zerolog.Logger
	getenv func(string) string
}

// NewLoader creates a loader. A nil getenv reads the process environment.
func NewLoader(logger zerolog.Logger, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Loader{logger: logger, getenv: getenv}
}

// Load builds the configuration from, in increasing precedence:
//  1. defaults
//  2. the user config ($XDG_CONFIG_HOME/cookiz/config.yaml); a missing file
//     is skipped, an unreadable or malformed one is an error
//  3. explicitPath, if set (must exist)
//  4. COOKIZ_* environment variables
//
// CLI flags are applied by the caller afterwards.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	if userPath := l.UserConfigPath(); userPath != "" {
		userCfg, err := LoadFromFile(userPath)
		switch {
		case err == nil:
			l.logger.Debug().Str("path", userPath).Msg("loaded user config")
			cfg.Merge(userCfg)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("user config: %w", err)
		}
	}

	if explicitPath != "" {
		fileCfg, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug().Str("path", explicitPath).Msg("loaded config file")
		cfg.Merge(fileCfg)
	}

	if err := cfg.ApplyEnv(l.getenv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserConfigPath returns the user config file path, or "" if no home
// directory can be found.
func (l *Loader) UserConfigPath() string {
	dir := l.getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cookiz", UserConfigFile)
}
