package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/webclient"
)

// Verdict is a completed URL analysis.
type Verdict struct {
	URL             string    `json:"url"`
	MaliciousVotes  int       `json:"malicious_votes"`
	HarmlessVotes   int       `json:"harmless_votes"`
	SuspiciousVotes int       `json:"suspicious_votes"`
	UndetectedVotes int       `json:"undetected_votes"`
	AnalysisID      string    `json:"analysis_id,omitempty"`
	Cached          bool      `json:"cached,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// Progress reports one poll of a running analysis.
type Progress struct {
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
	Status      string `json:"status"`
}

// ProgressFunc receives poll progress. It may be nil.
type ProgressFunc func(Progress)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Analyzer submits URLs to VirusTotal and polls for the analysis report.
type Analyzer struct {
	cfg    Config
	client webclient.WebClient
	logger logging.Logger
	sleep  Sleeper
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithSleeper replaces the wait between polls.
func WithSleeper(s Sleeper) Option {
	return func(a *Analyzer) { a.sleep = s }
}

func NewAnalyzer(cfg Config, client webclient.WebClient, logger logging.Logger, opts ...Option) (*Analyzer, error) {
	if client == nil {
		return nil, errors.New("analyzer: nil webclient")
	}
	if logger == nil {
		return nil, errors.New("analyzer: nil logger")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	a := &Analyzer{
		cfg:    cfg,
		client: client,
		logger: logger.With(logging.Field{Key: "component", Value: "analyzer"}),
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type analysisResponse struct {
	Data struct {
		Attributes struct {
			Status string         `json:"status"`
			Stats  map[string]int `json:"stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// Prepare sanitizes rawURL and checks that an API key is configured. URL
// validation comes first, so a malformed URL is a 422 even without a key.
func (a *Analyzer) Prepare(rawURL string) (string, error) {
	cleanURL, err := SanitizeURL(rawURL)
	if err != nil {
		return "", &StatusError{Status: http.StatusUnprocessableEntity, Detail: err.Error(), Err: err}
	}
	if a.cfg.APIKey == "" {
		a.logger.Warn("VIRUS_TOTAL_API_KEY not set")
		return "", ErrMissingAPIKey
	}
	return cleanURL, nil
}

// Analyze sanitizes rawURL, submits it and polls until the analysis completes.
// An analysis still unfinished after MaxAttempts polls yields ErrPending.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, progress ProgressFunc) (*Verdict, error) {
	cleanURL, err := a.Prepare(rawURL)
	if err != nil {
		return nil, err
	}

	analysisID, err := a.submit(ctx, cleanURL)
	if err != nil {
		return nil, err
	}

	var lastStatus string
	for attempt := 0; attempt < a.cfg.MaxAttempts; attempt++ {
		report, err := a.fetchReport(ctx, analysisID)
		if err != nil {
			return nil, err
		}
		attrs := report.Data.Attributes
		lastStatus = attrs.Status

		a.logger.Debug("polled analysis",
			logging.Field{Key: "url", Value: cleanURL},
			logging.Field{Key: "attempt", Value: attempt + 1},
			logging.Field{Key: "max_attempts", Value: a.cfg.MaxAttempts},
			logging.Field{Key: "status", Value: lastStatus},
			logging.Field{Key: "stats", Value: attrs.Stats})
		if progress != nil {
			progress(Progress{Attempt: attempt + 1, MaxAttempts: a.cfg.MaxAttempts, Status: lastStatus})
		}

		if lastStatus == "completed" {
			return &Verdict{
				URL:             cleanURL,
				MaliciousVotes:  attrs.Stats["malicious"],
				HarmlessVotes:   attrs.Stats["harmless"],
				SuspiciousVotes: attrs.Stats["suspicious"],
				UndetectedVotes: attrs.Stats["undetected"],
				AnalysisID:      analysisID,
				CheckedAt:       time.Now().UTC(),
			}, nil
		}

		if attempt < a.cfg.MaxAttempts-1 {
			if err := a.sleep(ctx, PollDelay(attempt)); err != nil {
				return nil, err
			}
		}
	}

	a.logger.Debug("analysis still pending",
		logging.Field{Key: "url", Value: cleanURL},
		logging.Field{Key: "max_attempts", Value: a.cfg.MaxAttempts},
		logging.Field{Key: "last_status", Value: lastStatus})
	return nil, ErrPending
}

func (a *Analyzer) headers() http.Header {
	h := http.Header{}
	h.Set("x-apikey", a.cfg.APIKey)
	h.Set("accept", "application/json")
	return h
}

func (a *Analyzer) submit(ctx context.Context, cleanURL string) (string, error) {
	hdrs := a.headers()
	hdrs.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.do(ctx, &webclient.Request{
		Method:  http.MethodPost,
		URL:     strings.TrimRight(a.cfg.BaseURL, "/") + "/api/v3/urls",
		Headers: hdrs,
		Body:    []byte(url.Values{"url": {cleanURL}}.Encode()),
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &StatusError{Status: resp.StatusCode, Detail: "VT POST error: " + string(resp.Body)}
	}

	var sr submitResponse
	if err := json.Unmarshal(resp.Body, &sr); err != nil || sr.Data.ID == "" {
		return "", &StatusError{Status: http.StatusBadGateway, Detail: "VT POST error: missing analysis id", Err: err}
	}
	return sr.Data.ID, nil
}

func (a *Analyzer) fetchReport(ctx context.Context, id string) (*analysisResponse, error) {
	resp, err := a.do(ctx, &webclient.Request{
		Method:  http.MethodGet,
		URL:     strings.TrimRight(a.cfg.BaseURL, "/") + "/api/v3/analyses/" + url.PathEscape(id),
		Headers: a.headers(),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, Detail: "VT GET error: " + string(resp.Body)}
	}

	var ar analysisResponse
	if err := json.Unmarshal(resp.Body, &ar); err != nil {
		return nil, &StatusError{Status: http.StatusBadGateway, Detail: "VT GET error: invalid analysis report", Err: err}
	}
	return &ar, nil
}

// do sends req and maps transport failures to 502. A canceled or expired
// caller context is returned as is.
func (a *Analyzer) do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	resp, err := a.client.Do(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	a.logger.Warn("virustotal request failed",
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "error", Value: err.Error()})
	return nil, &StatusError{
		Status: http.StatusBadGateway,
		Detail: fmt.Sprintf("VirusTotal request failed, service may be down: %v", err),
		Err:    err,
	}
}
