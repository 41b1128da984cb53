package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatal("expected the only non-nil handler to be returned unwrapped")
	}
}

func TestFanoutConsoleAndFileSinks(t *testing.T) {
	var console, file bytes.Buffer
	consoleLevel := new(slog.LevelVar)
	consoleLevel.Set(slog.LevelInfo)
	fileLevel := new(slog.LevelVar)
	fileLevel.Set(slog.LevelDebug)

	logger := slog.New(TeeHandler(
		newPrettyHandler(&console, consoleLevel, false, false),
		newJSONHandler(&file, fileLevel, false),
	))
	logger = NewComponentLogger(logger, "plparser")

	logger.Debug("sniffed", String(FieldMimeType, "audio/x-mpegurl"))
	logger.Info("resolved", Int("entries", 3))

	if strings.Contains(console.String(), "sniffed") {
		t.Fatalf("console sink should drop debug records, got %q", console.String())
	}
	if !strings.Contains(console.String(), "plparser: resolved entries=3") {
		t.Fatalf("unexpected console output: %q", console.String())
	}
	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected both records in the file sink, got %q", file.String())
	}
	if !strings.Contains(lines[0], `"component":"plparser"`) || !strings.Contains(lines[0], `"mime_type":"audio/x-mpegurl"`) {
		t.Fatalf("unexpected json record: %s", lines[0])
	}
}

func TestFanoutEnabledIfAnyHandlerIs(t *testing.T) {
	var a, b bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled when no handler accepts it")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("warn should be enabled through the first handler")
	}
}

func TestFanoutWithGroup(t *testing.T) {
	var a, b bytes.Buffer
	h := newFanoutHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil)).WithGroup("fetch")
	slog.New(h).Info("sample", slog.Int("bytes", 512))
	for _, buf := range []*bytes.Buffer{&a, &b} {
		if !strings.Contains(buf.String(), `"fetch":{"bytes":512}`) {
			t.Fatalf("expected grouped attribute, got %q", buf.String())
		}
	}
}

func TestTeeLoggerNilBase(t *testing.T) {
	var buf bytes.Buffer
	TeeLogger(nil, slog.NewJSONHandler(&buf, nil)).Info("no base")
	if buf.Len() == 0 {
		t.Fatal("expected output in tee buffer")
	}
}
