package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
base_url: https://site.example
timeout_ms: 500
cache: true
prefetch: false
log_level: debug
schema:
  prefix: data-app
transitions:
  - name: fade
    from: home
    to: about
  - name: slide
    sync: true
redis:
  addr: localhost:6379
  ttl: 5m
history_path: /tmp/history.db
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pergola.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://site.example", cfg.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout())
	require.NotNil(t, cfg.Prefetch)
	assert.False(t, *cfg.Prefetch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "data-app", cfg.Schema["prefix"])
	require.Len(t, cfg.Transitions, 2)
	assert.Equal(t, "fade", cfg.Transitions[0].Name)
	assert.True(t, cfg.Transitions[1].Sync)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "/tmp/history.db", cfg.HistoryPath)

	ttl, err := cfg.Redis.RedisTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout())
	assert.Nil(t, cfg.Cache)
	assert.Empty(t, cfg.Transitions)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "transitions: [unclosed"))
	assert.Error(t, err)
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, "DEBUG", (&Config{LogLevel: "debug"}).Level().String())
	assert.Equal(t, "WARN", (&Config{LogLevel: "warn"}).Level().String())
	assert.Equal(t, "ERROR", (&Config{LogLevel: "error"}).Level().String())
	assert.Equal(t, "INFO", (&Config{}).Level().String())
}

func TestConfig_BuildTransitions(t *testing.T) {
	cfg := &Config{Transitions: []TransitionRule{
		{Name: "fade", From: "home", To: "about", Sync: true},
	}}

	transitions := cfg.BuildTransitions(nil, nil)
	require.Len(t, transitions, 1)
	assert.Equal(t, "fade", transitions[0].Name)
	assert.Equal(t, "home", transitions[0].From.Namespace)
	assert.Equal(t, "about", transitions[0].To.Namespace)
	assert.True(t, transitions[0].Sync)
}

func TestRedisConfig_BadTTL(t *testing.T) {
	c := &RedisConfig{TTL: "not-a-duration"}
	_, err := c.RedisTTL()
	assert.Error(t, err)
}
