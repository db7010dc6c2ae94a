package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

// maxAnalyzeBody bounds the POST /analyze body.
const maxAnalyzeBody = 64 << 10

// handleAnalyze godoc
// @Summary Analyze a URL
// @Description Submits the URL to VirusTotal and polls for the verdict. A 202 carries a plain-text detail.
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "URL to analyze"
// @Success 200 {object} analyzer.Verdict
// @Success 202 {string} string "Analysis pending. Try again shortly, server is busy."
// @Failure 422 {object} DetailResponse
// @Failure 500 {object} DetailResponse
// @Failure 502 {object} DetailResponse
// @Router /analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAnalyzeBody))
	if err := dec.Decode(&body); err != nil {
		s.logger.Warn("decoding analyze body", logging.Field{Key: "error", Value: err.Error()})
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: expected {\"url\": \"...\"}")
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "url is required")
		return
	}

	v, err := s.deps.Analyzer.Analyze(r.Context(), body.URL, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("analysis canceled by client", logging.Field{Key: "url", Value: body.URL})
			return
		}
		status, detail := analyzer.StatusOf(err)
		s.logger.Info("analysis not completed",
			logging.Field{Key: "url", Value: body.URL},
			logging.Field{Key: "status", Value: status},
			logging.Field{Key: "detail", Value: detail})
		writeDetail(w, status, detail)
		return
	}

	s.logger.Info("analysis completed",
		logging.Field{Key: "url", Value: v.URL},
		logging.Field{Key: "malicious_votes", Value: v.MaliciousVotes},
		logging.Field{Key: "harmless_votes", Value: v.HarmlessVotes},
		logging.Field{Key: "cached", Value: v.Cached})
	writeJSON(w, http.StatusOK, v)
}

// handleAnalyzeWS godoc
// @Summary Analyze a URL with streamed progress
// @Description Upgrades to a WebSocket that sends progress events, then one result or error event.
// @Tags analysis
// @Param url query string true "URL to analyze"
// @Success 101 {object} ProgressEvent
// @Router /ws/analyze [get]
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if strings.TrimSpace(target) == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends anything meaningful; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	events := make(chan any, 16)
	go func() {
		defer close(events)
		v, err := s.deps.Analyzer.Analyze(ctx, target, func(p analyzer.Progress) {
			ev := ProgressEvent{Type: EventProgress, Attempt: p.Attempt, MaxAttempts: p.MaxAttempts, Status: p.Status}
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
		var final any = ResultEvent{Type: EventResult, Result: v}
		if err != nil {
			status, detail := analyzer.StatusOf(err)
			final = ErrorEvent{Type: EventError, Status: status, Detail: detail}
		}
		select {
		case events <- final:
		case <-ctx.Done():
		}
	}()

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; stop polling
			cancel()
			for range events {
			}
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
