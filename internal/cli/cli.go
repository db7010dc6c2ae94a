package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// DefaultBackend is where urlcheck sends submissions unless -backend is given.
const DefaultBackend = "http://127.0.0.1:8000"

// CLIArgs are the command-line arguments of a single urlcheck run.
type CLIArgs struct {
	// Backend is the base URL of the analysis server.
	Backend string

	// URL is the raw input, exactly as a user would type it into the form.
	URL string

	// Serialize ignores submissions made while one is in flight.
	Serialize bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("urlcheck", flag.ContinueOnError)
	var (
		backend   = fs.String("backend", DefaultBackend, "Base URL of the analysis server")
		target    = fs.String("url", "", "URL to analyze (required)")
		serialize = fs.Bool("serialize", false, "Ignore submissions while one is in flight")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		// Flag parsing errors are useful to return to caller
		return nil, err
	}

	if strings.TrimSpace(*target) == "" {
		return nil, fmt.Errorf("missing required -url argument")
	}
	if strings.TrimSpace(*backend) == "" {
		return nil, fmt.Errorf("-backend must not be empty")
	}

	return &CLIArgs{
		Backend:   strings.TrimRight(*backend, "/"),
		URL:       *target,
		Serialize: *serialize,
		RawArgs:   args,
	}, nil
}
