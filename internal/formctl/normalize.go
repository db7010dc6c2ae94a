package formctl

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned by NormalizeInput for empty or whitespace-only input.
var ErrEmptyInput = errors.New("empty url input")

// NormalizeInput trims raw and prefixes "http://" unless it already starts with
// "http://" or "https://" in any letter case.
func NormalizeInput(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", ErrEmptyInput
	}
	if !hasHTTPScheme(u) {
		u = "http://" + u
	}
	return u, nil
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
