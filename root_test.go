package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nookvault/nookvault/internal/config"
)

func TestBuildLogger_LevelFromConfig(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := buildLogger(&config.Resolved{LogLevel: tt.level}, CLIFlags{}, &bytes.Buffer{})

			assert.True(t, logger.Enabled(context.Background(), tt.want))
			assert.False(t, logger.Enabled(context.Background(), tt.want-1))
		})
	}
}

func TestBuildLogger_FlagsOverrideConfig(t *testing.T) {
	cfg := &config.Resolved{LogLevel: "error"}

	verbose := buildLogger(cfg, CLIFlags{Verbose: true}, &bytes.Buffer{})
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))

	quiet := buildLogger(&config.Resolved{LogLevel: "debug"}, CLIFlags{Quiet: true}, &bytes.Buffer{})
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, quiet.Enabled(context.Background(), slog.LevelError))
}

func TestBuildLogger_NilConfigDefaultsToInfo(t *testing.T) {
	logger := buildLogger(nil, CLIFlags{}, &bytes.Buffer{})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := buildLogger(&config.Resolved{LogLevel: "info", LogFormat: "json"}, CLIFlags{}, &buf)
	logger.Info("hello", slog.Int64("delivery_id", 42))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"delivery_id":42`)
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"login", "status", "library", "download", "cchash", "config"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"script", "token-path", "config", "verbose", "quiet"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}

	assert.Equal(t, "s", cmd.PersistentFlags().Lookup("script").Shorthand)
	assert.Equal(t, "t", cmd.PersistentFlags().Lookup("token-path").Shorthand)
}

func TestMustCLIContext_PanicsWithoutContext(t *testing.T) {
	assert.Panics(t, func() { mustCLIContext(context.Background()) })
}
