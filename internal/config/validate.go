package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateLogging(&cfg.LoggingConfig)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)
	errs = append(errs, validateEndpoints(&cfg.Endpoints)...)

	return errors.Join(errs...)
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.LogLevel)...)
	errs = append(errs, validateLogFormat(l.LogFormat)...)

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("log_format: must be one of text, json; got %q", format)}
	}

	return nil
}

func validateNetwork(n *NetworkConfig) []error {
	d, err := parseTimeout(n.Timeout)
	if err != nil {
		return []error{fmt.Errorf("timeout: invalid duration %q: %w", n.Timeout, err)}
	}

	if d < 0 {
		return []error{fmt.Errorf("timeout: must not be negative, got %q", n.Timeout)}
	}

	return nil
}

func validateEndpoints(e *EndpointsConfig) []error {
	var errs []error

	for _, ep := range []struct{ key, value string }{
		{"endpoints.login", e.Login},
		{"endpoints.cchash", e.CCHash},
		{"endpoints.sync", e.Sync},
		{"endpoints.license", e.License},
	} {
		if ep.value == "" {
			continue
		}

		if err := validateEndpointURL(ep.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ep.key, err))
		}
	}

	return errs
}

func validateEndpointURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL, got %q", raw)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}

	return nil
}
