package formctl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/raysh454/urlanalyzer/internal/webclient"
)

// Reply is the transport-level answer to a submission.
type Reply struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Transport delivers a submission to the analysis backend.
type Transport interface {
	Post(ctx context.Context, path, contentType string, body []byte) (*Reply, error)
}

// HTTPTransport posts through a webclient.WebClient to baseURL.
type HTTPTransport struct {
	client  webclient.WebClient
	baseURL string
}

func NewHTTPTransport(client webclient.WebClient, baseURL string) (*HTTPTransport, error) {
	if client == nil {
		return nil, errors.New("formctl: nil webclient")
	}
	return &HTTPTransport{client: client, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (t *HTTPTransport) Post(ctx context.Context, path, contentType string, body []byte) (*Reply, error) {
	hdrs := http.Header{}
	hdrs.Set("Content-Type", contentType)
	resp, err := t.client.Do(ctx, &webclient.Request{
		Method:  http.MethodPost,
		URL:     t.baseURL + path,
		Headers: hdrs,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{
		StatusCode: resp.StatusCode,
		Header:     resp.Headers,
		Body:       io.NopCloser(bytes.NewReader(resp.Body)),
	}, nil
}
