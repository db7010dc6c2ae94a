// Package browsercheck drives the served form page in headless Chrome and
// reports what a user would see after submitting a URL.
package browsercheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

// Config controls one check.
type Config struct {
	// PageURL is the form page, e.g. http://127.0.0.1:8000/.
	PageURL string

	// Input is typed into the URL field before submitting.
	Input string

	// ExecPath points at the Chrome or Chromium binary. Empty uses the default lookup.
	ExecPath string

	// Timeout bounds the whole check.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageURL: "http://127.0.0.1:8000/",
		Timeout: 90 * time.Second,
	}
}

// Report is the page state after the submission cycle finished.
type Report struct {
	Input          string `json:"input"`
	SubmitStatus   int    `json:"submit_status"`
	MessageText    string `json:"message_text"`
	MessageLevel   string `json:"message_level"`
	HasRetry       bool   `json:"has_retry"`
	RetryURL       string `json:"retry_url,omitempty"`
	ResultURL      string `json:"result_url,omitempty"`
	BadgeKind      string `json:"badge_kind,omitempty"`
	BadgeLabel     string `json:"badge_label,omitempty"`
	SubmitDisabled bool   `json:"submit_disabled"`
	LoadingVisible bool   `json:"loading_visible"`
}

var ErrNoMessage = errors.New("page has no message after submit")

func newBrowserCtx(parent context.Context, execPath string) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("window-size", "1366,768"),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	return ctx, func() {
		cancelCtx()
		cancelAlloc()
	}
}

// Run opens cfg.PageURL, submits cfg.Input and returns the resulting page state.
func Run(ctx context.Context, cfg Config, logger logging.Logger) (*Report, error) {
	if cfg.PageURL == "" {
		return nil, errors.New("browsercheck: empty page url")
	}
	if logger == nil {
		return nil, errors.New("browsercheck: nil logger")
	}
	logger = logger.With(logging.Field{Key: "component", Value: "browsercheck"})
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	bctx, cancel := newBrowserCtx(ctx, cfg.ExecPath)
	defer cancel()

	var (
		mu           sync.Mutex
		submitStatus int
	)
	chromedp.ListenTarget(bctx, func(ev any) {
		if e, ok := ev.(*network.EventResponseReceived); ok && strings.HasSuffix(e.Response.URL, "/submit") {
			mu.Lock()
			submitStatus = int(e.Response.Status)
			mu.Unlock()
		}
	})

	var html string
	err := chromedp.Run(bctx,
		network.Enable(),
		chromedp.Navigate(cfg.PageURL),
		chromedp.WaitVisible("#url", chromedp.ByQuery),
		chromedp.SetValue("#url", cfg.Input, chromedp.ByQuery),
		chromedp.Click("#submitBtn", chromedp.ByQuery),
		chromedp.WaitReady("#messages .msg", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browsercheck: %w", err)
	}

	report, err := ParsePage(html)
	if err != nil {
		return nil, err
	}
	report.Input = cfg.Input
	mu.Lock()
	report.SubmitStatus = submitStatus
	mu.Unlock()

	logger.Info("browser check finished",
		logging.Field{Key: "input", Value: cfg.Input},
		logging.Field{Key: "level", Value: report.MessageLevel},
		logging.Field{Key: "message", Value: report.MessageText},
		logging.Field{Key: "badge", Value: report.BadgeLabel})
	return report, nil
}

// ParsePage extracts the panels and control state from a rendered page.
func ParsePage(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	msg := doc.Find("#messages .msg").First()
	if msg.Length() == 0 {
		return nil, ErrNoMessage
	}
	r := &Report{}

	retry := msg.Find("form.retry-form")
	r.HasRetry = retry.Length() > 0
	if r.HasRetry {
		r.RetryURL, _ = retry.Find(`input[name="url"]`).Attr("value")
	}
	r.MessageText = strings.TrimSpace(msg.Clone().Children().Remove().End().Text())
	for _, level := range []formctl.Level{formctl.LevelInfo, formctl.LevelSuccess, formctl.LevelError} {
		if msg.HasClass(string(level)) {
			r.MessageLevel = string(level)
			break
		}
	}

	card := doc.Find("#result .card").First()
	if card.Length() > 0 {
		r.ResultURL = strings.TrimSpace(card.Find("h3").Text())
		badge := card.Find(".badge").First()
		r.BadgeLabel = strings.TrimSpace(badge.Text())
		for _, kind := range []formctl.BadgeKind{formctl.BadgeMalicious, formctl.BadgeHarmless, formctl.BadgeNeutral} {
			if badge.HasClass(string(kind)) {
				r.BadgeKind = string(kind)
				break
			}
		}
	}

	_, r.SubmitDisabled = doc.Find("#submitBtn").Attr("disabled")
	_, hidden := doc.Find("#loading").Attr("hidden")
	r.LoadingVisible = !hidden
	return r, nil
}
