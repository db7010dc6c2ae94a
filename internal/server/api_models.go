package server

import "github.com/raysh454/urlanalyzer/internal/analyzer"

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	URL string `json:"url" example:"https://example.com/login"`
}

// DetailResponse is the error payload of /analyze.
type DetailResponse struct {
	Detail string `json:"detail" example:"VIRUS_TOTAL_API_KEY not set"`
}

// ErrorResponse is a uniform error payload returned by the other API routes.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Event types sent over /ws/analyze.
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
)

// ProgressEvent reports one poll of the running analysis.
type ProgressEvent struct {
	Type        string `json:"type" example:"progress"`
	Attempt     int    `json:"attempt" example:"1"`
	MaxAttempts int    `json:"max_attempts" example:"10"`
	Status      string `json:"status" example:"queued"`
}

// ResultEvent ends the stream with a verdict.
type ResultEvent struct {
	Type   string            `json:"type" example:"result"`
	Result *analyzer.Verdict `json:"result"`
}

// ErrorEvent ends the stream with the status /analyze would have answered.
type ErrorEvent struct {
	Type   string `json:"type" example:"error"`
	Status int    `json:"status" example:"202"`
	Detail string `json:"detail" example:"Analysis pending. Try again shortly, server is busy."`
}
