package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/researchflow/agent/research"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Zero(t, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Coordinator.MaxIterations)
	assert.Equal(t, 2, cfg.Coordinator.SearchMaxResults)
	assert.Equal(t, "info", cfg.Log.Level)

	require.Len(t, cfg.Agents, 6)
	assert.Equal(t, "http://localhost:8001", cfg.Agents[research.AgentIDTopicRefiner])
	assert.Equal(t, "http://localhost:8006", cfg.Agents[research.AgentIDCoordinator])

	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9100
redis:
  addr: redis.internal:6379
  key_prefix: "researchflow:"
coordinator:
  max_iterations: 4
  step_timeout: 90s
agents:
  agent://topic-refiner: http://refiner.internal:8001
log:
  level: debug
  format: console
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "researchflow:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 4, cfg.Coordinator.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.Coordinator.StepTimeout)
	assert.Equal(t, "http://refiner.internal:8001", cfg.Agents[research.AgentIDTopicRefiner])
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2, cfg.Coordinator.SearchMaxResults)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600))

	t.Setenv("RESEARCHFLOW_SERVER_PORT", "9200")
	t.Setenv("RESEARCHFLOW_REDIS_ADDR", "env.redis:6379")
	t.Setenv("RESEARCHFLOW_LLM_API_KEY", "secret")
	t.Setenv("RESEARCHFLOW_COORDINATOR_STEP_TIMEOUT", "45s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "env.redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Coordinator.StepTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestLoad_CustomValidator(t *testing.T) {
	_, err := NewLoader().
		WithValidator(func(cfg *Config) error {
			if cfg.LLM.APIKey == "" {
				return assert.AnError
			}
			return nil
		}).
		Load()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuildLogger(t *testing.T) {
	cfg := DefaultConfig()
	logger, err := cfg.BuildLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg.Log.Level = "verbose"
	_, err = cfg.BuildLogger()
	assert.Error(t, err)

	cfg.Log.Level = "debug"
	cfg.Log.Format = "xml"
	_, err = cfg.BuildLogger()
	assert.Error(t, err)
}
