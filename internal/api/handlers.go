package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"plparse/internal/history"
	"plparse/internal/logging"
	"plparse/internal/metrics"
	"plparse/internal/plparser"
)

const defaultHistoryLimit = 50

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := strings.TrimSpace(query.Get("uri"))
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "uri is required")
		return
	}
	fallback, err := boolParam(query.Get("fallback"), true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid fallback value")
		return
	}
	shallow, err := boolParam(query.Get("shallow"), false)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid shallow value")
		return
	}

	opts := plparser.ResolveOptions{
		Base:     strings.TrimSpace(query.Get("base")),
		Fallback: fallback,
		Shallow:  shallow,
	}
	run, events := history.Capture(r.Context(), s.parser, target, opts, "api")

	resp := ResolveResponse{
		RunID:      run.ID,
		URI:        run.URI,
		Result:     run.Result,
		EntryCount: run.EntryCount,
		DurationMs: run.Duration.Milliseconds(),
		Events:     events,
	}
	if resp.Events == nil {
		resp.Events = []plparser.Event{}
	}
	if s.history != nil {
		if _, err := s.history.Record(r.Context(), run, events); err != nil {
			logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "failed to record resolution", "history_record_failed",
				logging.Error(err),
				logging.URI(target),
				logging.Hint("check the history database path and permissions"),
				logging.Impact("this run is missing from history"),
			)
		} else {
			resp.Recorded = true
			metrics.HistoryRunsRecorded.WithLabelValues("api").Inc()
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("uri"))
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "uri is required")
		return
	}
	t, err := s.parser.Classify(r.Context(), target)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	resp := ClassifyResponse{URI: target, Type: string(t)}
	if behavior, ok := s.parser.Behavior(t); ok {
		resp.Handled = true
		resp.Behavior = behavior.String()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}
	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	s.writeJSON(w, http.StatusOK, HistoryListResponse{Runs: runs})
}

func (s *Server) handleHistoryRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}
	id := mux.Vars(r)["id"]
	run, err := s.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	events, err := s.history.Events(r.Context(), run.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []plparser.Event{}
	}
	s.writeJSON(w, http.StatusOK, HistoryRunResponse{Run: run, Events: events})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		History: s.history != nil,
	})
}

func boolParam(raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
