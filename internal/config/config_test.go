package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page-loader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OutputDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output: /tmp/mirror
concurrency: 3
timeout: 5s
user_agent: test-agent/2.0
render: true
render_wait: 500ms
log_level: debug
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mirror", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "test-agent/2.0", cfg.UserAgent)
	assert.True(t, cfg.Render)
	assert.Equal(t, 500*time.Millisecond, cfg.RenderWait)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(50<<20), cfg.MaxBodyBytes, "unset fields keep their default")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)

	cfg, err = Load("", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":  "depth: 3\n",
		"bad yaml":       "concurrency: [\n",
		"zero workers":   "concurrency: 0\n",
		"bad duration":   "timeout: soon\n",
		"negative limit": "max_body_bytes: -1\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), true)
			assert.Error(t, err)
		})
	}
}
