package api

import (
	"plparse/internal/history"
	"plparse/internal/plparser"
)

// ResolveResponse is the body of /api/resolve.
type ResolveResponse struct {
	RunID      string           `json:"run_id"`
	URI        string           `json:"uri"`
	Result     plparser.Result  `json:"result"`
	EntryCount int              `json:"entry_count"`
	DurationMs int64            `json:"duration_ms"`
	Recorded   bool             `json:"recorded"`
	Events     []plparser.Event `json:"events"`
}

// ClassifyResponse is the body of /api/classify.
type ClassifyResponse struct {
	URI      string `json:"uri"`
	Type     string `json:"type"`
	Handled  bool   `json:"handled"`
	Behavior string `json:"behavior,omitempty"`
}

// HistoryListResponse is the body of /api/history.
type HistoryListResponse struct {
	Runs []history.Run `json:"runs"`
}

// HistoryRunResponse is the body of /api/history/{id}.
type HistoryRunResponse struct {
	Run    history.Run      `json:"run"`
	Events []plparser.Event `json:"events"`
}

// HealthResponse is the body of /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	History bool   `json:"history"`
}
