package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/report"
	"github.com/myjellybean/jellybean/internal/samples"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Analyze ---

// analyzeRequest is the home form as JSON: message, platform, relationship,
// context and save_to_history.
type analyzeRequest = app.Form

// statusFor maps an analysis error onto an HTTP status.
func statusFor(err error) int {
	var ce *analysis.ConfigurationError
	switch {
	case errors.Is(err, analysis.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if s.analyzer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "No analysis provider is configured.")
		return
	}

	if !s.beginAnalysis() {
		s.writeError(w, http.StatusConflict, "Another analysis is in progress. Try again when it finishes.")
		return
	}
	defer s.endAnalysis()

	ctx, cancel := s.analysisContext(r.Context())
	defer cancel()

	start := time.Now()
	ctrl := app.NewController(s.store, s.log)
	result, err := ctrl.Analyze(ctx, s.analyzer, req)
	s.metrics.observe(start, err)
	if err != nil {
		s.writeError(w, statusFor(err), analysis.UserMessage(err))
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// --- Report ---

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := model.DecodeResult(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid result: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.Format(*result))
}

// --- History ---

type historyResponse struct {
	Total   int                    `json:"total"`
	Entries []model.AnalysisResult `json:"entries"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Entries()
	if entries == nil {
		entries = []model.AnalysisResult{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Total: len(entries), Entries: entries})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clearing history")
		s.writeError(w, http.StatusInternalServerError, "history cleared in memory but could not be saved")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Samples ---

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, samples.All())
}
