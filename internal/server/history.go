package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/urlanalyzer/internal/history"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

// handleListHistory godoc
// @Summary List recorded analyses
// @Tags history
// @Produce json
// @Param domain query string false "Registrable domain, e.g. example.com"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} history.Entry
// @Failure 503 {object} ErrorResponse
// @Router /history [get]
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	f := history.Filter{Domain: r.URL.Query().Get("domain")}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			f.Limit = v
		}
	}

	entries, err := s.deps.History.List(r.Context(), f)
	if err != nil {
		s.logger.Warn("listing history", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("listed history", logging.Field{Key: "domain", Value: f.Domain}, logging.Field{Key: "count", Value: len(entries)})
	writeJSON(w, http.StatusOK, entries)
}

// handleGetHistory godoc
// @Summary Get one recorded analysis
// @Tags history
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} history.Entry
// @Failure 404 {object} ErrorResponse
// @Router /history/{id} [get]
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	e, err := s.deps.History.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting history entry", logging.Field{Key: "id", Value: id}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}
