package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/cache"
	"github.com/raysh454/urlanalyzer/internal/history"
	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/metrics"
	"github.com/raysh454/urlanalyzer/internal/server"
	"github.com/raysh454/urlanalyzer/internal/webclient"
)

// Application is the global runtime state container. It owns every component
// the HTTP server depends on and closes them on Shutdown.
type Application struct {
	Config *Config
	Logger logging.Logger

	Orch   *Orchestrator
	Server *server.Server

	webClient webclient.WebClient
	cache     cache.Cache
	history   *history.Store

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error
}

// NewApplication builds the analysis pipeline and the HTTP server from cfg.
// A Redis address that cannot be reached is fatal; a missing API key only warns.
func NewApplication(ctx context.Context, cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("urlanalyzer")
	}

	if cfg.AnalyzerCfg.APIKey == "" {
		logger.Warn("VIRUS_TOTAL_API_KEY not found in environment; /analyze will answer 500 until it is set")
	} else {
		logger.Debug("VIRUS_TOTAL_API_KEY loaded", logging.Field{Key: "key_prefix", Value: keyPrefix(cfg.AnalyzerCfg.APIKey)})
	}

	a := &Application{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeComponents()
		}
	}()

	wc, err := webclient.NewWebClient(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new webclient: %w", err)
	}
	a.webClient = wc

	vt, err := analyzer.NewAnalyzer(cfg.AnalyzerCfg, wc, logger)
	if err != nil {
		return nil, fmt.Errorf("new analyzer: %w", err)
	}

	c, err := cache.New(ctx, cfg.CacheCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new cache: %w", err)
	}
	a.cache = c

	h, err := history.Open(cfg.HistoryCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.history = h

	m := metrics.New()
	orch, err := NewOrchestrator(vt, c, h, m, logger)
	if err != nil {
		return nil, err
	}
	a.Orch = orch

	srvCfg := cfg.ServerCfg
	srvCfg.Form = cfg.FormCfg
	srvCfg.Logger = logger
	srv, err := server.NewServer(srvCfg, server.Deps{
		Analyzer: orch,
		History:  h,
		Metrics:  m.Handler(),
	})
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}
	a.Server = srv

	ok = true
	return a, nil
}

// Start binds the listen address and serves in the background.
func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.httpServer != nil {
		return errors.New("application already started")
	}

	hs := a.Server.HTTPServer()
	ln, err := net.Listen("tcp", hs.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", hs.Addr, err)
	}
	a.httpServer = hs
	a.listener = ln
	a.serveErr = make(chan error, 1)

	a.Logger.Info("application starting", logging.Field{Key: "addr", Value: ln.Addr().String()})
	go func() {
		err := hs.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		a.serveErr <- err
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Wait blocks until the server stops serving.
func (a *Application) Wait() error {
	a.mu.Lock()
	ch := a.serveErr
	a.mu.Unlock()
	if ch == nil {
		return errors.New("application not started")
	}
	return <-ch
}

// Shutdown attempts a graceful shutdown of the HTTP server, then closes the
// cache, the history store and the web client.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var errs []error
	a.mu.Lock()
	hs := a.httpServer
	a.mu.Unlock()
	if hs != nil {
		if err := hs.Shutdown(shutdownCtx); err != nil {
			a.Logger.Info("http server shutdown returned error", logging.Field{Key: "error", Value: err.Error()})
			errs = append(errs, err)
		}
	}
	if err := a.closeComponents(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *Application) closeComponents() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	if a.webClient != nil {
		errs = append(errs, a.webClient.Close())
	}
	return errors.Join(errs...)
}

func keyPrefix(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
