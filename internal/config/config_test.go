package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, BackendPostgres, cfg.Graph.Backend)
	assert.Equal(t, 0.4, cfg.Matching.IndirectDiscount)
	assert.Equal(t, 0.5, cfg.Matching.SecondaryDiscount)
	assert.Equal(t, WeightsConfig{Skills: 0.75, Location: 0.15, Semantic: 0.10}, cfg.Matching.Weights)
	assert.Equal(t, 4, cfg.Matching.MaxPathDepth)
	assert.Equal(t, 8, cfg.Matching.Workers)
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := []byte(`
graph:
  backend: memory
  snapshot_path: /tmp/graph.yaml
matching:
  indirect_discount: 0.3
  workers: 2
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MATCHING_WORKERS", "6")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Graph.Backend)
	assert.Equal(t, 0.3, cfg.Matching.IndirectDiscount)
	assert.Equal(t, 6, cfg.Matching.Workers)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown backend", func(c *Config) { c.Graph.Backend = "mysql" }, false},
		{"memory without snapshot", func(c *Config) { c.Graph.Backend = BackendMemory }, false},
		{"discount above one", func(c *Config) { c.Matching.IndirectDiscount = 1.5 }, false},
		{"negative weight", func(c *Config) { c.Matching.Weights.Location = -0.1 }, false},
		{"zero depth", func(c *Config) { c.Matching.MaxPathDepth = 0 }, false},
		{"zero workers", func(c *Config) { c.Matching.Workers = 0 }, false},
		{"limit above max", func(c *Config) { c.Matching.DefaultLimit = 500 }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"missing port", func(c *Config) { c.App.HTTPPort = " " }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errInvalidConfig)
			}
		})
	}
}
