package formctl

import (
	"bytes"
	"html/template"
	"sync"
)

var messageTmpl = template.Must(template.New("message").Parse(
	`<div class="msg {{.Level}}">{{.Text}}` +
		`{{with .Retry}}<form method="post" action="{{$.Action}}" class="retry-form">` +
		`<input type="hidden" name="url" value="{{.URL}}">` +
		`<button type="submit" id="retryBtn" class="retry">Retry</button></form>{{end}}</div>`))

// Document is an in-memory page holding the state of every element the
// controller touches. It is safe for concurrent use; concurrent writers follow
// last-write-wins.
type Document struct {
	mu          sync.RWMutex
	retryAction string

	input       string
	message     *Message
	messageHTML template.HTML
	result      *Card
	busy        bool
}

// DocumentState is a point-in-time copy of a Document.
type DocumentState struct {
	Input          string
	Message        *Message
	MessageHTML    template.HTML
	Result         *Card
	ResultHTML     template.HTML
	SubmitDisabled bool
	Busy           bool
}

// NewDocument returns a Document whose input field holds input. retryAction is
// the form action of the retry control embedded in pending messages.
func NewDocument(input, retryAction string) *Document {
	return &Document{input: input, retryAction: retryAction}
}

func (d *Document) InputValue() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.input
}

func (d *Document) SetInputValue(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.input = v
}

func (d *Document) ShowMessage(m Message) {
	var buf bytes.Buffer
	view := struct {
		Message
		Action string
	}{m, d.retryAction}
	if err := messageTmpl.Execute(&buf, view); err != nil {
		// The template only renders strings; keep the text visible regardless
		buf.Reset()
		buf.WriteString(template.HTMLEscapeString(m.Text))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = &m
	d.messageHTML = template.HTML(buf.String())
}

func (d *Document) ClearMessage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = nil
	d.messageHTML = ""
}

func (d *Document) ShowResult(c Card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = &c
}

func (d *Document) ClearResult() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = nil
}

// SetBusy toggles the busy indicator and the submit control. The end of any
// cycle re-enables the control, even while an overlapping one is in flight.
func (d *Document) SetBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = busy
}

// State returns a copy of the document.
func (d *Document) State() DocumentState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st := DocumentState{
		Input:          d.input,
		MessageHTML:    d.messageHTML,
		SubmitDisabled: d.busy,
		Busy:           d.busy,
	}
	if d.message != nil {
		m := *d.message
		st.Message = &m
	}
	if d.result != nil {
		c := *d.result
		st.Result = &c
		st.ResultHTML = c.HTML
	}
	return st
}
