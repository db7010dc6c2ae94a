package vtstub

// Config holds configuration for the stub VirusTotal server.
type Config struct {
	// Port is the port on which the stub listens.
	Port int

	// APIKey, when set, must be sent in the x-apikey header.
	APIKey string

	// PendingPolls is how many report fetches answer "queued" before an
	// analysis completes.
	PendingPolls int

	// DefaultStats is the verdict for hosts without an explicit one.
	DefaultStats Stats
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:         9998,
		APIKey:       "stub-key",
		PendingPolls: 1,
		DefaultStats: Stats{Harmless: 60, Undetected: 25},
	}
}
