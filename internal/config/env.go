package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Environment variable names for overrides.
const (
	EnvConfig    = "NOOKVAULT_CONFIG"
	EnvTokenPath = "NOOKVAULT_TOKEN_PATH"
	EnvOutputDir = "NOOKVAULT_OUTPUT_DIR"
	EnvLogLevel  = "NOOKVAULT_LOG_LEVEL"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string `env:"NOOKVAULT_CONFIG"`
	TokenPath  string `env:"NOOKVAULT_TOKEN_PATH"`
	OutputDir  string `env:"NOOKVAULT_OUTPUT_DIR"`
	LogLevel   string `env:"NOOKVAULT_LOG_LEVEL"`
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; Resolve applies the relevant fields.
func ReadEnvOverrides() (EnvOverrides, error) {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return EnvOverrides{}, fmt.Errorf("reading environment: %w", err)
	}

	return overrides, nil
}
