package formctl

// Level is the style of a message in the message panel.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// User-facing message texts.
const (
	MsgEmptyInput     = "Please enter a URL to analyze."
	MsgComplete       = "Analysis complete."
	MsgInvalidJSON    = "Invalid JSON response from server"
	MsgUnexpected     = "An unexpected error occurred"
	MsgPendingDefault = "Analysis pending at VirusTotal. Try again in a few seconds."
	MsgNotFound       = "No analysis data available yet. Please try again later."
	MsgServerConfig   = "Server configuration error (missing or invalid API key). Contact admin."
	MsgUpstream       = "Upstream request failed (network/VirusTotal). Please retry."
)

// Message is the content of the message panel.
type Message struct {
	Text  string
	Level Level

	// Retry is set on pending messages and carries the URL a retry resubmits.
	Retry *RetryControl
}

// RetryControl is the retry affordance embedded in a pending message.
type RetryControl struct {
	URL string
}
