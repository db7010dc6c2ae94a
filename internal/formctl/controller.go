package formctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/raysh454/urlanalyzer/internal/logging"
)

// Outcome is how a submission cycle ended.
type Outcome string

const (
	OutcomeInputError Outcome = "input_error"
	OutcomePending    Outcome = "pending"
	OutcomeSuccess    Outcome = "success"
	OutcomeError      Outcome = "error"
	OutcomeIgnored    Outcome = "ignored"
)

// AnalysisRequest is the JSON body posted to the analysis endpoint.
type AnalysisRequest struct {
	URL string `json:"url"`
}

// Controller runs the submit cycle: idle, submitting, then pending, success or
// error, then idle again. Nothing from a finished cycle is retained except the
// last submitted URL, which Retry reuses.
type Controller struct {
	cfg       Config
	transport Transport
	view      Renderer
	logger    logging.Logger

	inFlight atomic.Bool

	mu            sync.Mutex
	lastSubmitted string
}

func NewController(cfg Config, transport Transport, view Renderer, logger logging.Logger) (*Controller, error) {
	if transport == nil {
		return nil, errors.New("formctl: nil transport")
	}
	if view == nil {
		return nil, errors.New("formctl: nil renderer")
	}
	if logger == nil {
		return nil, errors.New("formctl: nil logger")
	}
	if cfg.AnalyzePath == "" {
		cfg.AnalyzePath = DefaultAnalyzePath
	}
	return &Controller{
		cfg:       cfg,
		transport: transport,
		view:      view,
		logger:    logger.With(logging.Field{Key: "component", Value: "formctl"}),
	}, nil
}

// LastSubmitted returns the normalized URL of the most recent submission.
func (c *Controller) LastSubmitted() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSubmitted
}

// Retry puts the last submitted URL back into the input and submits again.
func (c *Controller) Retry(ctx context.Context) Outcome {
	if last := c.LastSubmitted(); last != "" {
		c.view.SetInputValue(last)
	}
	return c.Submit(ctx)
}

// Submit runs one submission cycle. Every failure is rendered on the message
// panel; the returned Outcome only tells the caller how the cycle ended.
func (c *Controller) Submit(ctx context.Context) (outcome Outcome) {
	if c.cfg.SerializeSubmissions && !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("submission ignored, another one is in flight")
		return OutcomeIgnored
	}
	serialized := c.cfg.SerializeSubmissions
	defer func() {
		if serialized {
			c.inFlight.Store(false)
		}
	}()

	c.view.ClearMessage()
	c.view.ClearResult()

	raw := c.view.InputValue()
	url, err := NormalizeInput(raw)
	if err != nil {
		c.view.ShowMessage(Message{Text: MsgEmptyInput, Level: LevelError})
		return OutcomeInputError
	}

	c.view.SetBusy(true)
	defer c.view.SetBusy(false)
	defer func() {
		if r := recover(); r != nil {
			outcome = c.fail(fmt.Errorf("%v", r))
		}
	}()

	c.mu.Lock()
	c.lastSubmitted = url
	c.mu.Unlock()

	body, err := json.Marshal(AnalysisRequest{URL: url})
	if err != nil {
		return c.fail(err)
	}

	c.logger.Debug("submitting url", logging.Field{Key: "url", Value: url})
	reply, err := c.transport.Post(ctx, c.cfg.AnalyzePath, "application/json", body)
	if err != nil {
		return c.fail(err)
	}
	if reply.Body != nil {
		defer reply.Body.Close()
	}

	switch {
	case reply.StatusCode == http.StatusAccepted:
		c.showPending(readText(reply.Body), url)
		return OutcomePending
	case reply.StatusCode < 200 || reply.StatusCode > 299:
		c.showHTTPError(reply.StatusCode, readText(reply.Body))
		return OutcomeError
	}

	data, err := readAll(reply.Body)
	if err != nil {
		c.view.ShowMessage(Message{Text: MsgInvalidJSON, Level: LevelError})
		return OutcomeError
	}
	result, err := DecodeResult(data, raw)
	if err != nil {
		c.view.ShowMessage(Message{Text: MsgInvalidJSON, Level: LevelError})
		return OutcomeError
	}
	if !c.renderResult(result) {
		return OutcomeError
	}
	c.view.ShowMessage(Message{Text: MsgComplete, Level: LevelSuccess})
	return OutcomeSuccess
}

// renderResult fills the result panel. It reports false when the result carried
// an error instead of votes.
func (c *Controller) renderResult(r *Result) bool {
	if r.Error != "" {
		c.view.ShowMessage(Message{Text: r.Error, Level: LevelError})
		c.view.ClearResult()
		return false
	}
	card, err := RenderCard(r)
	if err != nil {
		panic(fmt.Sprintf("render result card: %v", err))
	}
	c.view.ShowResult(card)
	return true
}

func (c *Controller) showPending(text, url string) {
	if strings.TrimSpace(text) == "" {
		text = MsgPendingDefault
	}
	c.view.ShowMessage(Message{Text: text, Level: LevelInfo, Retry: &RetryControl{URL: url}})
}

func (c *Controller) showHTTPError(status int, body string) {
	msg := fmt.Sprintf("Server returned %d", status)

	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			if s := detailText(obj["detail"]); s != "" {
				msg = s
			} else if s := detailText(obj["message"]); s != "" {
				msg = s
			}
		}
	} else if body != "" {
		msg = body
	}

	switch status {
	case http.StatusNotFound:
		c.view.ShowMessage(Message{Text: MsgNotFound, Level: LevelInfo})
	case http.StatusInternalServerError:
		c.view.ShowMessage(Message{Text: MsgServerConfig, Level: LevelError})
	case http.StatusBadGateway:
		c.view.ShowMessage(Message{Text: MsgUpstream, Level: LevelError})
	default:
		c.view.ShowMessage(Message{Text: msg, Level: LevelError})
	}
}

func (c *Controller) fail(err error) Outcome {
	c.logger.Error("submission failed", logging.Field{Key: "error", Value: err.Error()})
	text := err.Error()
	if text == "" {
		text = MsgUnexpected
	}
	c.view.ShowMessage(Message{Text: text, Level: LevelError})
	return OutcomeError
}

// detailText renders a detail/message value; validation errors arrive as lists.
func detailText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return io.ReadAll(r)
}

// readText reads a body as text; a failed read counts as an empty body.
func readText(r io.Reader) string {
	b, err := readAll(r)
	if err != nil {
		return ""
	}
	return string(b)
}
