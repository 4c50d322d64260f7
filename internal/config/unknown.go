package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownGlobalKeys are the valid top-level keys, including table names.
var knownGlobalKeys = map[string]bool{
	"token_path": true, "output_dir": true,
	"log_level": true, "log_format": true,
	"network": true, "endpoints": true,
}

// knownSectionKeys are the valid keys inside each table.
var knownSectionKeys = map[string]map[string]bool{
	"network":   {"timeout": true},
	"endpoints": {"login": true, "cchash": true, "sync": true, "license": true},
}

// sortedKeys returns the keys of m sorted, for deterministic suggestions when
// two candidates have the same edit distance.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns
// an error with "did you mean?" suggestions for each unknown key.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	var errs []error

	for _, key := range undecoded {
		errs = append(errs, buildKeyError(key))
	}

	return errors.Join(errs...)
}

// buildKeyError creates a descriptive error for an unknown key, optionally
// suggesting the closest known key at the same level.
func buildKeyError(key toml.Key) error {
	if len(key) > 1 {
		if section, ok := knownSectionKeys[key[0]]; ok {
			return unknownKeyError(key.String(), key[1], section)
		}
	}

	return unknownKeyError(key[0], key[0], knownGlobalKeys)
}

func unknownKeyError(display, name string, known map[string]bool) error {
	suggestion := closestMatch(name, sortedKeys(known))
	if suggestion != "" {
		return fmt.Errorf("unknown config key %q: did you mean %q?", display, suggestion)
	}

	return fmt.Errorf("unknown config key %q", display)
}

// closestMatch finds the closest known key by Levenshtein distance.
// Returns empty string if no match is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		d := levenshtein(unknown, k)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}

	if bestDist <= maxLevenshteinDistance {
		return best
	}

	return ""
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}

	if b == "" {
		return len(a)
	}

	// Use single-row optimization to avoid allocating a full matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 0; i < len(a); i++ {
		curr[0] = i + 1

		for j := 0; j < len(b); j++ {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}

			curr[j+1] = minOf(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// minOf returns the minimum of three integers.
func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}
