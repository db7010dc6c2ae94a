package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/history"
	"github.com/raysh454/urlanalyzer/internal/logging"
	_ "github.com/raysh454/urlanalyzer/internal/server/docs" // registers the OpenAPI document
)

// Analyzer runs one URL analysis. Errors map to HTTP statuses through
// analyzer.StatusOf.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*analyzer.Verdict, error)
}

// HistoryStore reads recorded analyses.
type HistoryStore interface {
	List(ctx context.Context, f history.Filter) ([]history.Entry, error)
	Get(ctx context.Context, id string) (*history.Entry, error)
}

// Deps are the services the server routes to. History and Metrics are optional.
type Deps struct {
	Analyzer Analyzer
	History  HistoryStore
	Metrics  http.Handler
}

// Server is the HTTP + WebSocket API surface and the server-rendered form page.
type Server struct {
	cfg      Config
	deps     Deps
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	page     *pageRenderer
}

func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, errors.New("server: nil analyzer")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: r,
		logger: logger.With(logging.Field{Key: "component", Value: "server"}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to BIND_ADDR origins once the page is served behind a proxy
				return true
			},
		},
	}

	page, err := newPageRenderer(s, cfg.Form, s.logger)
	if err != nil {
		return nil, err
	}
	s.page = page

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/analyze", s.optionsHandler("POST"))
	r.Options("/history", s.optionsHandler("GET"))
	r.Options("/history/{id}", s.optionsHandler("GET"))

	// Analysis
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/ws/analyze", s.handleAnalyzeWS)

	// History
	r.Get("/history", s.handleListHistory)
	r.Get("/history/{id}", s.handleGetHistory)

	// Page
	r.Get("/", s.page.handleIndex)
	r.Post("/submit", s.page.handleSubmit)
	r.Handle("/static/*", staticHandler())

	// Operational
	r.Get("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// maxLoggedBody is how much of a request body the access log keeps.
const maxLoggedBody = 1 << 10

type readCloser struct {
	io.Reader
	io.Closer
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		// Only a prefix is buffered; the handler reads it back followed by the rest.
		prefix, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
		if err == nil {
			logged := prefix
			if len(logged) > maxLoggedBody {
				logged = logged[:maxLoggedBody]
				fields = append(fields, logging.Field{Key: "body_truncated", Value: true})
			}
			fields = append(fields, logging.Field{Key: "body", Value: string(logged)})
		}
		r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(prefix), r.Body), Closer: r.Body}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// handleHealth godoc
// @Summary Liveness probe
// @Tags operational
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDetail writes the {"detail": ...} body the form controller parses. A 202
// goes out as plain text so the pending message shows the sentence itself.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusAccepted {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, detail)
		return
	}
	writeJSON(w, status, DetailResponse{Detail: detail})
}
