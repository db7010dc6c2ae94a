package formctl

// DefaultAnalyzePath is the backend endpoint the controller posts to.
const DefaultAnalyzePath = "/analyze"

// Config controls a Controller.
type Config struct {
	// AnalyzePath is appended to the transport's base URL. Defaults to DefaultAnalyzePath.
	AnalyzePath string

	// SerializeSubmissions drops a submission that arrives while another one is
	// still in flight. When false, concurrent submissions race on the panels and
	// the last one to finish wins. The guard is per Controller, so it only
	// matters to a long-lived controller such as urlcheck's; the page builds a
	// fresh controller for every POST /submit.
	SerializeSubmissions bool
}

// DefaultConfig returns the controller defaults.
func DefaultConfig() Config {
	return Config{AnalyzePath: DefaultAnalyzePath}
}
