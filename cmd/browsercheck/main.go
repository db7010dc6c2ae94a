// Command browsercheck loads the form page in headless Chrome, submits a URL
// and prints the resulting page state as JSON.
// Usage: go run ./cmd/browsercheck -url example.com [-page http://127.0.0.1:8000/]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/raysh454/urlanalyzer/internal/browsercheck"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

func main() {
	cfg := browsercheck.DefaultConfig()
	flag.StringVar(&cfg.PageURL, "page", cfg.PageURL, "form page to open")
	flag.StringVar(&cfg.Input, "url", "", "URL to type into the form (required)")
	flag.StringVar(&cfg.ExecPath, "chrome", "", "path to the Chrome binary")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	flag.Parse()

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "browsercheck: missing required -url argument")
		os.Exit(2)
	}

	logger := logging.NewLogger(os.Stderr, "browsercheck", false)
	report, err := browsercheck.Run(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "browsercheck: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
	if report.MessageLevel == "error" {
		os.Exit(1)
	}
}
