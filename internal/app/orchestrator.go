package app

import (
	"context"
	"errors"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/cache"
	"github.com/raysh454/urlanalyzer/internal/history"
	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/metrics"
)

// VerdictSource produces verdicts for sanitized URLs. *analyzer.Analyzer
// implements it.
type VerdictSource interface {
	Prepare(rawURL string) (string, error)
	Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*analyzer.Verdict, error)
}

// Recorder stores completed verdicts. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, v *analyzer.Verdict) (*history.Entry, error)
}

// Orchestrator runs one analysis through the cache, VirusTotal, the history
// and the metrics. Cache and history failures are logged and never fail the
// analysis itself.
type Orchestrator struct {
	source  VerdictSource
	cache   cache.Cache
	history Recorder
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewOrchestrator ties the pipeline together. cache, history and metrics may be nil.
func NewOrchestrator(source VerdictSource, c cache.Cache, h Recorder, m *metrics.Metrics, logger logging.Logger) (*Orchestrator, error) {
	if source == nil {
		return nil, errors.New("orchestrator: nil verdict source")
	}
	if logger == nil {
		return nil, errors.New("orchestrator: nil logger")
	}
	return &Orchestrator{
		source:  source,
		cache:   c,
		history: h,
		metrics: m,
		logger:  logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
	}, nil
}

// Analyze returns the verdict for rawURL. A cached verdict is returned with
// Cached set and no progress is reported for it.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*analyzer.Verdict, error) {
	cleanURL, err := o.source.Prepare(rawURL)
	if err != nil {
		o.observe(metrics.OutcomeError)
		return nil, err
	}

	if v := o.lookup(ctx, cleanURL); v != nil {
		o.observe(metrics.OutcomeCached)
		return v, nil
	}

	polls := 0
	v, err := o.source.Analyze(ctx, cleanURL, func(p analyzer.Progress) {
		polls = p.Attempt
		if progress != nil {
			progress(p)
		}
	})
	if o.metrics != nil && polls > 0 {
		o.metrics.ObservePolls(polls)
	}
	switch {
	case errors.Is(err, analyzer.ErrPending):
		o.observe(metrics.OutcomePending)
		return nil, err
	case err != nil:
		o.observe(metrics.OutcomeError)
		return nil, err
	}

	o.observe(metrics.OutcomeCompleted)
	o.store(ctx, cleanURL, v)
	return v, nil
}

func (o *Orchestrator) lookup(ctx context.Context, cleanURL string) *analyzer.Verdict {
	if o.cache == nil {
		return nil
	}
	v, err := o.cache.Get(ctx, cleanURL)
	if o.metrics != nil {
		o.metrics.ObserveCache(err == nil)
	}
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			o.logger.Warn("cache lookup failed", logging.Field{Key: "url", Value: cleanURL}, logging.Field{Key: "error", Value: err.Error()})
		}
		return nil
	}
	o.logger.Debug("cache hit", logging.Field{Key: "url", Value: cleanURL})
	v.Cached = true
	return v
}

func (o *Orchestrator) store(ctx context.Context, cleanURL string, v *analyzer.Verdict) {
	if o.cache != nil {
		if err := o.cache.Set(ctx, cleanURL, v); err != nil {
			o.logger.Warn("cache store failed", logging.Field{Key: "url", Value: cleanURL}, logging.Field{Key: "error", Value: err.Error()})
		}
	}
	if o.history != nil {
		if _, err := o.history.Record(ctx, v); err != nil {
			o.logger.Warn("recording history failed", logging.Field{Key: "url", Value: cleanURL}, logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

func (o *Orchestrator) observe(outcome string) {
	if o.metrics != nil {
		o.metrics.ObserveAnalysis(outcome)
	}
}
