package formctl

import (
	"fmt"
	"io"
	"sync"
)

// TextRenderer renders the panels as plain text lines for a terminal.
type TextRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	input string
	last  *Message
}

func NewTextRenderer(out io.Writer, input string) *TextRenderer {
	return &TextRenderer{out: out, input: input}
}

func (t *TextRenderer) InputValue() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

func (t *TextRenderer) SetInputValue(v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = v
}

func (t *TextRenderer) ShowMessage(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &m
	if m.Retry != nil {
		fmt.Fprintf(t.out, "[%s] %s (retry available for %s)\n", m.Level, m.Text, m.Retry.URL)
		return
	}
	fmt.Fprintf(t.out, "[%s] %s\n", m.Level, m.Text)
}

func (t *TextRenderer) ClearMessage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = nil
}

func (t *TextRenderer) ShowResult(c Card) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := c.Result
	fmt.Fprintln(t.out, r.URL)
	if r.Score != nil {
		fmt.Fprintf(t.out, "  Score: %s\n", *r.Score)
	}
	fmt.Fprintf(t.out, "  Malicious votes: %s | Harmless votes: %s\n", r.Malicious, r.Harmless)
	fmt.Fprintf(t.out, "  [%s] %s\n", c.Badge.Kind, c.Badge.Label)
}

func (t *TextRenderer) ClearResult() {}

func (t *TextRenderer) SetBusy(busy bool) {
	if busy {
		t.mu.Lock()
		defer t.mu.Unlock()
		fmt.Fprintln(t.out, "analyzing...")
	}
}

// LastMessage returns the message currently shown, if any.
func (t *TextRenderer) LastMessage() *Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	m := *t.last
	return &m
}
