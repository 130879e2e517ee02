package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 800.0, cfg.Streaming.ActiveRadius)
	assert.Equal(t, 1600.0, cfg.Streaming.AdjacentRadius)
	assert.Equal(t, 2400.0, cfg.Streaming.LoadRadius)
	assert.Equal(t, 3200.0, cfg.Streaming.UnloadRadius)

	assert.Equal(t, 0.3, cfg.Weather.StartProbability)
	assert.Equal(t, 5.0, cfg.Weather.RampDuration)

	assert.Equal(t, 6, cfg.Encounter.BaseCount)
	assert.Equal(t, 0.1, cfg.Encounter.RareProbability)

	assert.Equal(t, 20, cfg.World.TickRate)
	assert.Equal(t, "memory", cfg.Storage.SessionBackend)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
world:
  seed: 99
streaming:
  unload_radius: 5000
server:
  rest_port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.Equal(t, 5000.0, cfg.Streaming.UnloadRadius)
	assert.Equal(t, 9090, cfg.Server.GetRESTPort())

	// Незатронутые поля остаются дефолтными
	assert.Equal(t, 800.0, cfg.Streaming.ActiveRadius)
	assert.Equal(t, 20, cfg.World.TickRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/no/such/config.yml")
	assert.Error(t, err)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv("WORLD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPortEnvFallback(t *testing.T) {
	s := ServerConfig{}

	t.Setenv("WORLD_REST_PORT", "7777")
	assert.Equal(t, 7777, s.GetRESTPort(), "без значения в конфиге берётся ENV")

	t.Setenv("WORLD_REST_PORT", "not_a_port")
	assert.Equal(t, 8088, s.GetRESTPort(), "мусор в ENV падает на дефолт")

	s.RESTPort = 9000
	t.Setenv("WORLD_REST_PORT", "7777")
	assert.Equal(t, 9000, s.GetRESTPort(), "конфиг имеет приоритет над ENV")

	t.Setenv("WORLD_METRICS_PORT", "")
	assert.Equal(t, 2112, (&ServerConfig{}).GetMetricsPort())
}
