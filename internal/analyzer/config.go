package analyzer

import "time"

const DefaultBaseURL = "https://www.virustotal.com"

// Config controls the VirusTotal analyzer.
type Config struct {
	// APIKey is sent as x-apikey. Analyze refuses to run without it.
	APIKey string

	// BaseURL is the VirusTotal API origin.
	BaseURL string

	// MaxAttempts bounds how many times an analysis report is fetched.
	MaxAttempts int

	// Timeout bounds each request to VirusTotal.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the production defaults. APIKey is left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		MaxAttempts: 10,
		Timeout:     30 * time.Second,
	}
}

// PollDelay is the wait after the given zero-based attempt: 1s for the first
// three attempts, 4s up to the eighth, 8s afterwards.
func PollDelay(attempt int) time.Duration {
	switch {
	case attempt < 3:
		return 1 * time.Second
	case attempt < 8:
		return 4 * time.Second
	default:
		return 8 * time.Second
	}
}
