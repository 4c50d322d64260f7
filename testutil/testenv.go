// Package testutil provides shared environment helpers for E2E tests, which
// run the built binary against the live vendor service and cannot import
// internal/.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the E2E suite.
const (
	EnvE2EEmail       = "NOOKVAULT_E2E_EMAIL"
	EnvE2EPassword    = "NOOKVAULT_E2E_PASSWORD"
	EnvE2EDeliveryID  = "NOOKVAULT_E2E_DELIVERY_ID"
	EnvAllowedAccount = "NOOKVAULT_ALLOWED_TEST_ACCOUNTS"
)

// LoadDotEnv reads KEY=VALUE pairs from the .env files at paths. Missing
// files are skipped (CI sets env vars directly) and variables already in the
// environment are never overridden.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: ignoring %s: %v\n", p, err)
		}
	}
}

// ValidateAllowlist crashes the process unless the E2E account is listed in
// NOOKVAULT_ALLOWED_TEST_ACCOUNTS, so a stray .env can never point the suite
// at a personal account.
func ValidateAllowlist() {
	if err := CheckAllowlist(os.Getenv(EnvE2EEmail), os.Getenv(EnvAllowedAccount)); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		fmt.Fprintf(os.Stderr, "Example: %s=reader@example.com\n", EnvAllowedAccount)
		os.Exit(1)
	}
}

// CheckAllowlist reports whether email appears in the comma-separated
// allowlist.
func CheckAllowlist(email, allowlist string) error {
	if allowlist == "" {
		return fmt.Errorf("%s not set", EnvAllowedAccount)
	}

	if email == "" {
		return fmt.Errorf("%s not set", EnvE2EEmail)
	}

	for _, a := range strings.Split(allowlist, ",") {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return nil
		}
	}

	return fmt.Errorf("%s=%q is not in %s=%q", EnvE2EEmail, email, EnvAllowedAccount, allowlist)
}

// FindModuleRoot walks up from the current directory to find go.mod.
// Returns the fallback if the root is not found.
func FindModuleRoot(fallback string) string {
	dir, err := os.Getwd()
	if err != nil {
		return fallback
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fallback
		}

		dir = parent
	}
}
