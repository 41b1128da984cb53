package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"plparse/internal/history"
	"plparse/internal/plparser"
	"plparse/internal/testsupport"
)

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	events := []plparser.Event{
		{Kind: plparser.EventPlaylistStart, Bracket: plparser.Bracket{Kind: plparser.PlaylistStart, URI: "http://example.com/list.pls", Title: "Mix"}},
		{Kind: plparser.EventEntry, Entry: plparser.Entry{URI: "http://example.com/a.mp3", Title: "A", Metadata: plparser.Metadata{plparser.MetaDuration: "60"}}},
		{Kind: plparser.EventEntry, Entry: plparser.Entry{URI: "http://example.com/b.mp3"}},
		{Kind: plparser.EventPlaylistEnd, Bracket: plparser.Bracket{Kind: plparser.PlaylistEnd, URI: "http://example.com/list.pls", Title: "Mix"}},
	}
	run, err := store.Record(ctx, history.Run{
		URI:      "http://example.com/list.pls",
		Result:   plparser.Success,
		Duration: 1500 * time.Millisecond,
	}, events)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected generated run id")
	}
	if run.EntryCount != 2 {
		t.Fatalf("entry count = %d, want 2", run.EntryCount)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URI != run.URI || got.Result != plparser.Success || got.Source != "cli" {
		t.Fatalf("stored run = %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %s, want 1.5s", got.Duration)
	}

	prefixed, err := store.Get(ctx, run.ID[:8])
	if err != nil || prefixed.ID != run.ID {
		t.Fatalf("Get(prefix) = %+v, %v", prefixed, err)
	}

	stored, err := store.Events(ctx, run.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(stored) != len(events) {
		t.Fatalf("got %d events, want %d", len(stored), len(events))
	}
	if stored[0].Kind != plparser.EventPlaylistStart || stored[0].Title() != "Mix" {
		t.Fatalf("first event = %+v", stored[0])
	}
	if stored[1].Entry.Metadata[plparser.MetaDuration] != "60" {
		t.Fatalf("metadata lost: %+v", stored[1])
	}
}

func TestGetUnknown(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Get(context.Background(), "does-not-exist"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestRecordRejectsEmptyURI(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Record(context.Background(), history.Run{}, nil); err == nil {
		t.Fatal("expected error for empty uri")
	}
}

func TestListAndPrune(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now()

	old := testsupport.RecordRun(t, store, "file:///old.m3u", now.Add(-48*time.Hour), "file:///a.mp3")
	mid := testsupport.RecordRun(t, store, "file:///mid.m3u", now.Add(-time.Hour))
	recent := testsupport.RecordRun(t, store, "file:///new.m3u", now, "file:///b.mp3", "file:///c.mp3")

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != recent.ID || runs[2].ID != old.ID {
		t.Fatalf("List order = %+v", runs)
	}
	limited, err := store.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List(1) = %d runs, %v", len(limited), err)
	}

	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d runs, want 1", removed)
	}
	if _, err := store.Get(ctx, old.ID); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("pruned run still present: %v", err)
	}
	events, err := store.Events(ctx, old.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events of pruned run remain: %+v", events)
	}
	if _, err := store.Get(ctx, mid.ID); err != nil {
		t.Fatalf("Get(mid): %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run := testsupport.RecordRun(t, first, "file:///list.m3u", time.Now())
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	if _, err := second.Get(context.Background(), run.ID); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
