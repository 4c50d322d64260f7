package config

import (
	"fmt"
	"io"
)

// RenderEffective writes the resolved configuration as an annotated summary
// to w. This powers the "config show" command.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration (config file: %s)\n\n", r.ConfigPath)

	ew.printf("token_path = %q\n", r.TokenPath)
	ew.printf("output_dir = %q\n", displayOutputDir(r.OutputDir))
	ew.printf("log_level  = %q\n", r.LogLevel)
	ew.printf("log_format = %q\n", r.LogFormat)
	ew.printf("\n")

	ew.printf("[network]\n")
	if r.Timeout == 0 {
		ew.printf("  timeout = \"0\" # none\n")
	} else {
		ew.printf("  timeout = %q\n", r.Timeout.String())
	}

	ew.printf("\n")

	ew.printf("[endpoints]\n")
	renderEndpoint(ew, "login  ", r.Endpoints.Login)
	renderEndpoint(ew, "cchash ", r.Endpoints.CCHash)
	renderEndpoint(ew, "sync   ", r.Endpoints.Sync)
	renderEndpoint(ew, "license", r.Endpoints.License)

	return ew.err
}

func renderEndpoint(ew *errWriter, key, value string) {
	if value == "" {
		ew.printf("  %s = (built-in)\n", key)
		return
	}

	ew.printf("  %s = %q\n", key, value)
}

func displayOutputDir(dir string) string {
	if dir == "" {
		return "."
	}

	return dir
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
