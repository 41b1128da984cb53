package logging

import (
	"fmt"
	"log/slog"
	"time"
)

type Attr = slog.Attr

// Keys shared by resolver, disc and daemon records.
const (
	FieldDevice   = "device"
	FieldMimeType = "mime_type"
	FieldResult   = "result"
	FieldDepth    = "depth"
)

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// URI tags the resource a record is about.
func URI(value string) Attr { return slog.String(FieldURI, value) }

// Device tags an optical drive or block device path.
func Device(path string) Attr { return slog.String(FieldDevice, path) }

// MimeType records a classified type by its string form.
func MimeType(t fmt.Stringer) Attr { return slog.String(FieldMimeType, t.String()) }

// Outcome records a resolution result by its string form.
func Outcome(r fmt.Stringer) Attr { return slog.String(FieldResult, r.String()) }

// Depth records how deep in nested playlists a record was produced.
func Depth(n int) Attr { return slog.Int(FieldDepth, n) }

func EventType(value string) Attr { return slog.String(FieldEventType, value) }

func Hint(value string) Attr { return slog.String(FieldErrorHint, value) }

func Impact(value string) Attr { return slog.String(FieldImpact, value) }

// Args converts attributes into the variadic form slog.Logger methods take.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact, filling generic values for whichever the caller left out.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	if !hasKey(attrs, FieldEventType) {
		attrs = append(attrs, EventType(eventType))
	}
	if !hasKey(attrs, FieldErrorHint) {
		attrs = append(attrs, Hint("rerun with --log-level debug for details"))
	}
	if !hasKey(attrs, FieldImpact) {
		attrs = append(attrs, Impact("resolution continued without this item"))
	}
	logger.Warn(msg, Args(attrs...)...)
}
