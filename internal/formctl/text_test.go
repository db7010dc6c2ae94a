package formctl_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/raysh454/urlanalyzer/internal/formctl"
)

func TestTextRenderer_Success(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	view := formctl.NewTextRenderer(&out, "example.com")
	c, err := formctl.NewController(formctl.DefaultConfig(),
		always(200, `{"url":"http://example.com","malicious_votes":5,"harmless_votes":2,"score":3}`), view, &noopLogger{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	c.Submit(context.Background())

	got := out.String()
	for _, want := range []string{
		"analyzing...",
		"http://example.com",
		"Score: 3",
		"Malicious votes: 5 | Harmless votes: 2",
		"[malicious] Malicious: 5",
		"[success] Analysis complete.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTextRenderer_PendingExposesRetry(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	view := formctl.NewTextRenderer(&out, "example.com")
	c, _ := formctl.NewController(formctl.DefaultConfig(), always(202, "queued"), view, &noopLogger{})

	if got := c.Submit(context.Background()); got != formctl.OutcomePending {
		t.Fatalf("outcome = %s", got)
	}
	msg := view.LastMessage()
	if msg == nil || msg.Retry == nil || msg.Retry.URL != "http://example.com" {
		t.Fatalf("expected retry control, got %+v", msg)
	}
	if !strings.Contains(out.String(), "[info] queued (retry available for http://example.com)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
