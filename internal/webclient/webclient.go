package webclient

import (
	"context"
)

// WebClient executes HTTP requests against a backend. Implementations read the full
// response body before returning.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)
	Close() error
}
