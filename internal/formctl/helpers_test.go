package formctl_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

// noopLogger is a test-local logger implementation that discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...logging.Field) {}
func (n *noopLogger) Info(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Warn(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Error(msg string, fields ...logging.Field) {}
func (n *noopLogger) With(fields ...logging.Field) logging.Logger {
	return n
}

type postCall struct {
	Path        string
	ContentType string
	URL         string
}

// fakeTransport records posts and answers them with respond.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []postCall
	respond func(n int) (*formctl.Reply, error)
}

func (f *fakeTransport) Post(_ context.Context, path, contentType string, body []byte) (*formctl.Reply, error) {
	var req formctl.AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, postCall{Path: path, ContentType: contentType, URL: req.URL})
	n := len(f.calls)
	f.mu.Unlock()
	return f.respond(n)
}

func (f *fakeTransport) Calls() []postCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postCall(nil), f.calls...)
}

func reply(status int, body string) *formctl.Reply {
	return &formctl.Reply{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func always(status int, body string) *fakeTransport {
	return &fakeTransport{respond: func(int) (*formctl.Reply, error) { return reply(status, body), nil }}
}

func failing(err error) *fakeTransport {
	return &fakeTransport{respond: func(int) (*formctl.Reply, error) { return nil, err }}
}

// errReader fails every read.
type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (errReader) Close() error             { return nil }

func newController(t *testing.T, cfg formctl.Config, tr formctl.Transport, doc *formctl.Document) *formctl.Controller {
	t.Helper()
	c, err := formctl.NewController(cfg, tr, doc, &noopLogger{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func assertIdle(t *testing.T, doc *formctl.Document) {
	t.Helper()
	st := doc.State()
	if st.SubmitDisabled || st.Busy {
		t.Errorf("expected idle document, got disabled=%v busy=%v", st.SubmitDisabled, st.Busy)
	}
}

func assertMessage(t *testing.T, doc *formctl.Document, text string, level formctl.Level) {
	t.Helper()
	st := doc.State()
	if st.Message == nil {
		t.Fatalf("expected message %q, got none", text)
	}
	if st.Message.Text != text || st.Message.Level != level {
		t.Errorf("message = %q (%s), want %q (%s)", st.Message.Text, st.Message.Level, text, level)
	}
}
