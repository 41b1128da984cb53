package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plparse/internal/disc"
	"plparse/internal/logging"
	"plparse/internal/plparser"
	"plparse/internal/testsupport"
)

type fakeDetector struct {
	media disc.Media
	err   error
}

func (f fakeDetector) DetectDevice(context.Context, string) (disc.Media, error) { return f.media, f.err }
func (f fakeDetector) DetectImage(context.Context, string) (disc.Media, error)  { return f.media, f.err }

func readyAlways(context.Context, string, int) (disc.DriveStatus, error) {
	return disc.DriveStatusDiscOK, nil
}

func newTestDaemon(t *testing.T, detector fakeDetector) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	mem := testsupport.MemFetcher(t, nil)
	mem.PutDevice("file:///dev/sr0")
	p := plparser.New(mem, plparser.WithLogger(logging.NewNop()), plparser.WithDiscDetector(detector))

	d, err := New(cfg, p, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.ready = readyAlways
	return d
}

func TestHandleInsertRecordsDiscRun(t *testing.T) {
	d := newTestDaemon(t, fakeDetector{media: disc.Media{Type: disc.MediaDVD, Location: "/dev/sr0", Label: "MOVIE_NIGHT"}})
	ctx := context.Background()

	if err := d.handleInsert(ctx, "/dev/sr0"); err != nil {
		t.Fatalf("handleInsert: %v", err)
	}

	runs, err := d.store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Source != "disc" || runs[0].Result != plparser.Success || runs[0].EntryCount != 1 {
		t.Fatalf("run = %+v", runs[0])
	}
	events, err := d.store.Events(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Entry.URI != "dvd:///dev/sr0" {
		t.Fatalf("events = %+v", events)
	}

	last := d.Status().LastDisc
	if last == nil || last.RunID != runs[0].ID || last.Result != plparser.Success {
		t.Fatalf("last disc = %+v", last)
	}
}

func TestHandleInsertDataDisc(t *testing.T) {
	d := newTestDaemon(t, fakeDetector{media: disc.Media{Type: disc.MediaData, Location: "/dev/sr0"}})
	if err := d.handleInsert(context.Background(), "/dev/sr0"); err != nil {
		t.Fatalf("handleInsert: %v", err)
	}
	last := d.Status().LastDisc
	if last == nil || last.Result != plparser.Unhandled {
		t.Fatalf("last disc = %+v, want unhandled", last)
	}
}

func TestHandleInsertNotReady(t *testing.T) {
	d := newTestDaemon(t, fakeDetector{})
	d.ready = func(context.Context, string, int) (disc.DriveStatus, error) {
		return disc.DriveStatusTrayOpen, errors.New("tray open")
	}

	if err := d.handleInsert(context.Background(), "/dev/sr0"); err == nil {
		t.Fatal("expected error for a drive that never becomes ready")
	}
	runs, err := d.store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("runs = %d, want none", len(runs))
	}
	if last := d.Status().LastDisc; last == nil || last.Err == "" {
		t.Fatalf("last disc = %+v", last)
	}
}

func TestRunMaintenance(t *testing.T) {
	d := newTestDaemon(t, fakeDetector{})
	d.cfg.History.RetentionDays = 7
	d.cfg.Logging.RetentionDays = 7

	now := time.Now()
	testsupport.RecordRun(t, d.store, "http://example.com/old.m3u", now.AddDate(0, 0, -30), "http://example.com/a.mp3")
	fresh := testsupport.RecordRun(t, d.store, "http://example.com/new.m3u", now, "http://example.com/b.mp3")

	oldLog := filepath.Join(d.cfg.Paths.LogDir, "plparse-20240101.log")
	current := filepath.Join(d.cfg.Paths.LogDir, logging.LogFileName)
	for _, path := range []string{oldLog, current} {
		if err := os.WriteFile(path, []byte("log"), 0o644); err != nil {
			t.Fatalf("write log: %v", err)
		}
		old := now.AddDate(0, 0, -30)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	d.runMaintenance(context.Background())

	runs, err := d.store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != fresh.ID {
		t.Fatalf("runs after prune = %+v", runs)
	}
	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatalf("old log still present: %v", err)
	}
	if _, err := os.Stat(current); err != nil {
		t.Fatalf("current log removed: %v", err)
	}
}
