package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero success delay", func(c *Config) { c.Engine.SuccessDelay = 0 }},
		{"error longer than success", func(c *Config) { c.Engine.ErrorDelay = 2 * time.Second }},
		{"zero tick", func(c *Config) { c.Engine.TickInterval = 0 }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/cookiz.db
engine:
  success_delay: 2s
  error_delay: 750ms
llm:
  provider: mock
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cookiz.db", cfg.DBPath)
	assert.Equal(t, 2*time.Second, cfg.Engine.SuccessDelay)
	assert.Equal(t, 750*time.Millisecond, cfg.Engine.ErrorDelay)
	assert.Equal(t, time.Second, cfg.Engine.TickInterval, "unset keys keep defaults")
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.CatalogDir = "/games"
	require.NoError(t, want.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Precedence(t *testing.T) {
	xdg := t.TempDir()
	userPath := filepath.Join(xdg, "cookiz", UserConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("catalog_dir: /user\ndb_path: /user.db\n"), 0o644))

	explicit := filepath.Join(t.TempDir(), "x.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("db_path: /explicit.db\nlog:\n  level: debug\n"), 0o644))

	env := map[string]string{
		"XDG_CONFIG_HOME":      xdg,
		"COOKIZ_LOG_LEVEL":     "warn",
		"COOKIZ_TICK_INTERVAL": "500ms",
	}
	l := NewLoader(zerolog.Nop(), func(k string) string { return env[k] })

	cfg, err := l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "/user", cfg.CatalogDir)
	assert.Equal(t, "/explicit.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.TickInterval)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	l := NewLoader(zerolog.Nop(), func(k string) string {
		if k == "XDG_CONFIG_HOME" {
			return t.TempDir()
		}
		return ""
	})
	_, err := l.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv_BadDuration(t *testing.T) {
	c := DefaultConfig()
	err := c.ApplyEnv(func(k string) string {
		if k == "COOKIZ_ERROR_DELAY" {
			return "soon"
		}
		return ""
	})
	assert.ErrorContains(t, err, "COOKIZ_ERROR_DELAY")
}

func TestLoader_MalformedUserConfig(t *testing.T) {
	xdg := t.TempDir()
	userPath := filepath.Join(xdg, "cookiz", UserConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("engine: [not a map\n"), 0o644))

	l := NewLoader(zerolog.Nop(), func(k string) string {
		if k == "XDG_CONFIG_HOME" {
			return xdg
		}
		return ""
	})
	_, err := l.Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user config: parse config file "+userPath)
}

func TestLoader_MissingUserConfigSkipped(t *testing.T) {
	xdg := t.TempDir()
	l := NewLoader(zerolog.Nop(), func(k string) string {
		if k == "XDG_CONFIG_HOME" {
			return xdg
		}
		return ""
	})

	cfg, err := l.Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
