package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/config"
	"github.com/abhisek/cookiz/internal/logging"
	"github.com/abhisek/cookiz/internal/screens/play"
	"github.com/abhisek/cookiz/internal/store"
)

// env is the resolved configuration and logger shared by every command.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	logFile *os.File
}

// loadEnv applies, in increasing precedence, defaults, config files,
// COOKIZ_* variables and the persistent flags.
func loadEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader(zerolog.Nop(), nil).Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogDir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	e := &env{cfg: cfg}
	logCfg := logging.Config{Level: cfg.Log.Level, Version: version}
	if cfg.Log.File != "-" {
		path := cfg.Log.File
		if path == "" {
			if path, err = logging.DefaultFile(); err != nil {
				return nil, err
			}
		}
		if e.logFile, err = logging.OpenFile(path); err != nil {
			return nil, err
		}
		logCfg.Output = e.logFile
	}
	if e.log, err = logging.New(logCfg); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

func (e *env) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

func (e *env) openStore() (*store.Store, error) {
	path := e.cfg.DBPath
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

// openCatalog loads the built-in games and the user catalog. Invalid user
// files are reported on stderr and skipped.
func (e *env) openCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Open(e.cfg.CatalogDir, logging.Component(e.log, "catalog"))
	if cat == nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Some games were skipped:", err)
	}
	return cat, nil
}

func (e *env) playTiming() play.Timing {
	return play.Timing{
		SuccessDelay: e.cfg.Engine.SuccessDelay,
		ErrorDelay:   e.cfg.Engine.ErrorDelay,
		TickInterval: e.cfg.Engine.TickInterval,
	}
}

// openStoreOnly loads the environment and opens the store. done releases
// both.
func openStoreOnly(cmd *cobra.Command) (*store.Store, func(), error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := e.openStore()
	if err != nil {
		e.close()
		return nil, nil, err
	}
	return s, func() {
		_ = s.Close()
		e.close()
	}, nil
}
