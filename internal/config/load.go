package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal, with "did you mean?" suggestions.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	// 1. Resolve config path: CLI > env > default
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	// 2. Load config file (returns defaults if no file exists)
	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	// 3. Apply env overrides
	if env.TokenPath != "" {
		cfg.TokenPath = env.TokenPath
	}

	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}

	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	// 4. Apply CLI overrides
	if cli.TokenPath != "" {
		cfg.TokenPath = cli.TokenPath
	}

	if cli.OutputDir != "" {
		cfg.OutputDir = cli.OutputDir
	}

	// 5. Validate again: env may have introduced a bad log level.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = DefaultTokenPath()
	}

	timeout, err := parseTimeout(cfg.Network.Timeout)
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}

	return &Resolved{
		ConfigPath: cfgPath,
		TokenPath:  expandTilde(tokenPath),
		OutputDir:  expandTilde(cfg.OutputDir),
		LogLevel:   cfg.LogLevel,
		LogFormat:  cfg.LogFormat,
		Timeout:    timeout,
		Endpoints:  cfg.Endpoints,
	}, nil
}

// parseTimeout accepts Go duration strings; "0" and "" mean no timeout.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}

	return time.ParseDuration(s)
}
