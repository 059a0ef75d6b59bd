package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 102400, cfg.Terminal.BufferSize)
	assert.Equal(t, "node", cfg.Terminal.RuntimeBin)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TERMINAL_SHELL", "/bin/zsh")
	t.Setenv("TERMINAL_TOOL_BINS", "/opt/tools/gh,/opt/tools/jq")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
	assert.Equal(t, []string{"/opt/tools/gh", "/opt/tools/jq"}, cfg.Terminal.ToolBins)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestDefaultMatchesLoad(t *testing.T) {
	def := Default()
	assert.Equal(t, "8090", def.Server.Port)
	assert.Equal(t, 102400, def.Terminal.BufferSize)
}
