package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_AllFieldsPopulated(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	// Logging defaults (promoted field access)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	assert.Equal(t, "0", cfg.Network.Timeout)
	assert.Empty(t, cfg.TokenPath)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, EndpointsConfig{}, cfg.Endpoints)
}

func TestDefaultConfig_PassesValidation(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestDefaultConfig_Independent(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	a.LogLevel = "debug"
	assert.Equal(t, "warn", b.LogLevel)
}
