package testsupport

import (
	"context"
	"testing"
	"time"

	"plparse/internal/config"
	"plparse/internal/history"
	"plparse/internal/plparser"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordRun stores a successful run of target with one entry per uri.
func RecordRun(t testing.TB, store *history.Store, target string, startedAt time.Time, uris ...string) history.Run {
	t.Helper()

	events := make([]plparser.Event, 0, len(uris))
	for _, u := range uris {
		events = append(events, plparser.Event{Kind: plparser.EventEntry, Entry: plparser.Entry{URI: u}})
	}
	run, err := store.Record(context.Background(), history.Run{
		URI:       target,
		Result:    plparser.Success,
		StartedAt: startedAt,
	}, events)
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return run
}
