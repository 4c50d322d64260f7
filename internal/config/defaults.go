package config

// Default values for configuration options. These are layer 0 of the
// override chain and are used when no config file exists.
const (
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	defaultTimeout   = "0"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
// TokenPath stays empty here; Resolve fills in the platform default.
func DefaultConfig() *Config {
	return &Config{
		LoggingConfig: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		Network: NetworkConfig{
			Timeout: defaultTimeout,
		},
	}
}
