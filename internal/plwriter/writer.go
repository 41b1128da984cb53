package plwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"plparse/internal/fileutil"
	"plparse/internal/plparser"
	"plparse/internal/uri"
)

// Format names a playlist file format.
type Format string

const (
	FormatM3U  Format = "m3u"
	FormatPLS  Format = "pls"
	FormatXSPF Format = "xspf"
)

// ErrUnknownFormat is returned for output names without a supported extension.
var ErrUnknownFormat = errors.New("unknown playlist format")

// FormatFromName picks the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".m3u", ".m3u8":
		return FormatM3U, nil
	case ".pls":
		return FormatPLS, nil
	case ".xspf":
		return FormatXSPF, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnknownFormat)
}

// Playlist is a flat list of entries with an optional title.
type Playlist struct {
	Title   string
	Entries []plparser.Entry
}

// FromEvents flattens a resolution into a playlist. The title of the
// outermost bracket becomes the playlist title; nested brackets are dropped.
func FromEvents(events []plparser.Event) Playlist {
	var pl Playlist
	depth := 0
	for _, ev := range events {
		switch ev.Kind {
		case plparser.EventPlaylistStart:
			if depth == 0 && pl.Title == "" {
				pl.Title = ev.Bracket.Title
			}
			depth++
		case plparser.EventPlaylistEnd:
			if depth > 0 {
				depth--
			}
		case plparser.EventEntry:
			pl.Entries = append(pl.Entries, ev.Entry)
		}
	}
	return pl
}

// Write serializes pl in format f. output is where the file will live and
// anchors relative references; it may be empty.
func Write(w io.Writer, f Format, pl Playlist, output string) error {
	switch f {
	case FormatM3U:
		return writeM3U(w, pl, output)
	case FormatPLS:
		return writePLS(w, pl, output)
	case FormatXSPF:
		return writeXSPF(w, pl, output)
	}
	return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// Save writes pl to path in the format its extension names.
func Save(path string, pl Playlist) error {
	f, err := FormatFromName(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, f, pl, abs); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	return nil
}

// location returns the reference to write for target.
func location(target, output string) string {
	if output != "" {
		if rel := uri.RelativeTo(target, output); rel != "" {
			return rel
		}
	}
	return target
}
