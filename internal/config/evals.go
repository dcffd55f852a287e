package config

import (
	"strconv"
	"strings"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// suffixMultipliers implements spec.md §6's "string+multiplier" evals
// grammar: a real number with an optional k/M/T suffix, or plain scientific
// notation ("1e3", "4e9") which strconv.ParseFloat already understands.
var suffixMultipliers = map[byte]float64{
	'k': 1e3,
	'K': 1e3,
	'M': 1e6,
	'T': 1e12,
}

// parseEvals parses spec.md §6's `evals` option: "10k", "0.4M", "4e9",
// "1e3" all parse to a positive evaluation-count integer.
func parseEvals(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, kerr.New(kerr.BadConfig, "config: evals must not be empty")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return validateEvalsFloat(v)
	}

	last := s[len(s)-1]
	mult, ok := suffixMultipliers[last]
	if !ok {
		return 0, kerr.New(kerr.BadConfig, "config: evals %q is neither a number nor a k/M/T-suffixed number", s)
	}

	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, kerr.New(kerr.BadConfig, "config: evals %q: %v", s, err)
	}

	return validateEvalsFloat(v * mult)
}

func validateEvalsFloat(v float64) (int64, error) {
	if v <= 0 {
		return 0, kerr.New(kerr.BadConfig, "config: evals must be > 0, got %v", v)
	}
	return int64(v), nil
}
