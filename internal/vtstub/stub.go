package vtstub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Stats mirrors the "stats" object of a VirusTotal analysis.
type Stats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Undetected int `json:"undetected"`
	Harmless   int `json:"harmless"`
	Timeout    int `json:"timeout"`
}

type analysis struct {
	id    string
	url   string
	polls int
	stats Stats
}

// Server is a small stand-in for the VirusTotal v3 URL analysis API. Verdicts
// and pending behaviour can be switched on the fly through /stub endpoints.
type Server struct {
	cfg    Config
	router chi.Router

	mu           sync.RWMutex
	analyses     map[string]*analysis
	verdicts     map[string]Stats // host -> stats
	pendingPolls int
	submitErr    int
	submissions  []string
}

// New creates a stub server instance.
func New(cfg Config) *Server {
	s := &Server{
		cfg:          cfg,
		router:       chi.NewRouter(),
		analyses:     make(map[string]*analysis),
		verdicts:     make(map[string]Stats),
		pendingPolls: cfg.PendingPolls,
	}

	s.router.Route("/api/v3", func(r chi.Router) {
		r.Use(s.requireKey)
		r.Post("/urls", s.handleSubmit)
		r.Get("/analyses/{id}", s.handleAnalysis)
	})

	s.router.Post("/stub/verdicts", s.handleSetVerdict)
	s.router.Post("/stub/pending", s.handleSetPending)
	s.router.Post("/stub/reset", s.handleReset)
	s.router.Get("/stub/submissions", s.handleSubmissions)
	return s
}

// Handler returns the stub's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	return http.ListenAndServe(addr, s.router)
}

// SetVerdict fixes the stats reported for URLs on host.
func (s *Server) SetVerdict(host string, stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[strings.ToLower(host)] = stats
}

// SetPendingPolls changes how many polls stay queued for new analyses.
func (s *Server) SetPendingPolls(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPolls = n
}

// FailSubmissions makes URL submissions answer status until reset. Zero turns it off.
func (s *Server) FailSubmissions(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErr = status
}

// Submissions returns every URL submitted so far.
func (s *Server) Submissions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.submissions...)
}

// Reset drops all analyses and overrides.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = make(map[string]*analysis)
	s.verdicts = make(map[string]Stats)
	s.pendingPolls = s.cfg.PendingPolls
	s.submitErr = 0
	s.submissions = nil
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("x-apikey") != s.cfg.APIKey {
			writeVTError(w, http.StatusUnauthorized, "WrongCredentialsError", "Wrong API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeVTError(w, http.StatusBadRequest, "InvalidArgumentError", "unable to parse form")
		return
	}
	target := r.PostForm.Get("url")
	u, err := url.Parse(target)
	if target == "" || err != nil || u.Host == "" {
		writeVTError(w, http.StatusBadRequest, "InvalidArgumentError", "Unable to canonicalize url")
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, target)
	if s.submitErr != 0 {
		status := s.submitErr
		s.mu.Unlock()
		writeVTError(w, status, "TransientError", "submission rejected")
		return
	}
	stats, ok := s.verdicts[strings.ToLower(u.Hostname())]
	if !ok {
		stats = s.cfg.DefaultStats
	}
	a := &analysis{
		id:    "u-" + uuid.New().String(),
		url:   target,
		polls: -s.pendingPolls,
		stats: stats,
	}
	s.analyses[a.id] = a
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"type": "analysis",
			"id":   a.id,
			"links": map[string]string{
				"self": "/api/v3/analyses/" + a.id,
			},
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	a, ok := s.analyses[id]
	if !ok {
		s.mu.Unlock()
		writeVTError(w, http.StatusNotFound, "NotFoundError", fmt.Sprintf("Analysis %q not found", id))
		return
	}
	a.polls++
	status := "queued"
	stats := Stats{}
	if a.polls > 0 {
		status = "completed"
		stats = a.stats
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"type": "analysis",
			"id":   a.id,
			"attributes": map[string]any{
				"status": status,
				"stats":  stats,
			},
		},
		"meta": map[string]any{
			"url_info": map[string]string{"url": a.url},
		},
	})
}

func (s *Server) handleSetVerdict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Host  string `json:"host"`
		Stats Stats  `json:"stats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Host == "" {
		http.Error(w, "expected {host, stats}", http.StatusBadRequest)
		return
	}
	s.SetVerdict(body.Host, body.Stats)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPending(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Polls int `json:"polls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Polls < 0 {
		http.Error(w, "expected {polls}", http.StatusBadRequest)
		return
	}
	s.SetPendingPolls(body.Polls)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Submissions())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeVTError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}
