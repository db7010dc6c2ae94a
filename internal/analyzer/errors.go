package analyzer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingAPIKey = errors.New("VIRUS_TOTAL_API_KEY not set")
	ErrPending       = errors.New("analysis still pending")
	ErrInvalidURL    = errors.New("invalid url")
)

// PendingDetail is the detail text sent with a 202 for an unfinished analysis.
const PendingDetail = "Analysis pending. Try again shortly, server is busy."

// StatusError carries the HTTP status an analysis failure maps to.
type StatusError struct {
	Status int
	Detail string
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Detail, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Detail)
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusOf maps an Analyze error to the HTTP status and detail text returned
// to clients.
func StatusOf(err error) (int, string) {
	var se *StatusError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &se):
		return se.Status, se.Detail
	case errors.Is(err, ErrPending):
		return http.StatusAccepted, PendingDetail
	case errors.Is(err, ErrMissingAPIKey):
		return http.StatusInternalServerError, ErrMissingAPIKey.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
