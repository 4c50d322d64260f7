// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for nookvault. Values are resolved in
// four layers: defaults -> config file -> environment -> CLI flags.
package config

import "time"

// Config is the top-level configuration structure parsed from a TOML file.
// Logging keys sit at the top level; network and endpoint settings live in
// their own tables.
type Config struct {
	TokenPath string `toml:"token_path"`
	OutputDir string `toml:"output_dir"`
	LoggingConfig
	Network   NetworkConfig   `toml:"network"`
	Endpoints EndpointsConfig `toml:"endpoints"`
}

// LoggingConfig controls log output: level and handler format.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior. A timeout of "0" means no
// client-side timeout.
type NetworkConfig struct {
	Timeout string `toml:"timeout"`
}

// EndpointsConfig overrides individual vendor URLs. Empty values fall back
// to the built-in vendor endpoints.
type EndpointsConfig struct {
	Login   string `toml:"login" json:"login,omitempty"`
	CCHash  string `toml:"cchash" json:"cchash,omitempty"`
	Sync    string `toml:"sync" json:"sync,omitempty"`
	License string `toml:"license" json:"license,omitempty"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Empty strings mean "not specified".
type CLIOverrides struct {
	ConfigPath string // --config
	TokenPath  string // --token-path
	OutputDir  string // --output-dir
}

// Resolved is the effective configuration after all override layers.
type Resolved struct {
	ConfigPath string          `json:"config_path"`
	TokenPath  string          `json:"token_path"`
	OutputDir  string          `json:"output_dir"`
	LogLevel   string          `json:"log_level"`
	LogFormat  string          `json:"log_format"`
	Timeout    time.Duration   `json:"timeout"`
	Endpoints  EndpointsConfig `json:"endpoints"`
}
