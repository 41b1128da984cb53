package plwriter_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"plparse/internal/fetch"
	"plparse/internal/logging"
	"plparse/internal/plparser"
	"plparse/internal/plwriter"
)

func mix() plwriter.Playlist {
	return plwriter.Playlist{
		Title: "Road Trip",
		Entries: []plparser.Entry{
			{URI: "file:///music/a%20b.mp3", Title: "A", Metadata: plparser.Metadata{plparser.MetaDuration: "123"}},
			{URI: "file:///music/sub/c.ogg", Genre: "Jazz"},
			{URI: "http://radio.example.com/live.mp3", Title: "Live"},
		},
	}
}

// reparse feeds a written playlist back through the resolver.
func reparse(t *testing.T, location string, data []byte) []plparser.Entry {
	t.Helper()
	mem := fetch.NewMemory()
	mem.Put(location, data)
	p := plparser.New(mem, plparser.WithLogger(logging.NewNop()))
	var c plparser.Collector
	if result := p.Resolve(context.Background(), location, plparser.ResolveOptions{}, &c); result != plparser.Success {
		t.Fatalf("resolve written playlist: %s\n%s", result, data)
	}
	return c.Entries()
}

func TestWriteRoundTrips(t *testing.T) {
	for _, tt := range []struct {
		format plwriter.Format
		output string
	}{
		{format: plwriter.FormatM3U, output: "/music/out.m3u"},
		{format: plwriter.FormatPLS, output: "/music/out.pls"},
		{format: plwriter.FormatXSPF, output: "/music/out.xspf"},
	} {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			pl := mix()
			if err := plwriter.Write(&buf, tt.format, pl, tt.output); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if strings.Contains(buf.String(), "file:///music/") {
				t.Fatalf("local entries should be relative:\n%s", buf.String())
			}

			entries := reparse(t, "file://"+tt.output, buf.Bytes())
			var got []string
			for _, e := range entries {
				got = append(got, e.URI)
			}
			want := []string{"file:///music/a%20b.mp3", "file:///music/sub/c.ogg", "http://radio.example.com/live.mp3"}
			if !slices.Equal(got, want) {
				t.Fatalf("round trip = %q, want %q", got, want)
			}
			if entries[0].Title != "A" || entries[2].Title != "Live" {
				t.Fatalf("titles lost: %+v", entries)
			}
		})
	}
}

func TestWriteM3U(t *testing.T) {
	var buf bytes.Buffer
	if err := plwriter.Write(&buf, plwriter.FormatM3U, mix(), ""); err != nil {
		t.Fatal(err)
	}
	want := "#EXTM3U\n#PLAYLIST:Road Trip\n" +
		"#EXTINF:123,A\nfile:///music/a%20b.mp3\n" +
		"file:///music/sub/c.ogg\n" +
		"#EXTINF:-1,Live\nhttp://radio.example.com/live.mp3\n"
	if buf.String() != want {
		t.Fatalf("m3u mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWritePLSKeepsGenreAndTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := plwriter.Write(&buf, plwriter.FormatPLS, mix(), "/music/out.pls"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, line := range []string{"X-GNOME-Title=Road Trip", "NumberOfEntries=3", "File1=a b.mp3", "Genre2=Jazz", "Version=2"} {
		if !strings.Contains(out, line+"\n") {
			t.Fatalf("missing %q in:\n%s", line, out)
		}
	}
}

func TestFromEventsFlattens(t *testing.T) {
	events := []plparser.Event{
		{Kind: plparser.EventPlaylistStart, Bracket: plparser.Bracket{Kind: plparser.PlaylistStart, URI: "a", Title: "Outer"}},
		{Kind: plparser.EventEntry, Entry: plparser.Entry{URI: "x"}},
		{Kind: plparser.EventPlaylistStart, Bracket: plparser.Bracket{Kind: plparser.PlaylistStart, URI: "b", Title: "Inner"}},
		{Kind: plparser.EventEntry, Entry: plparser.Entry{URI: "y"}},
		{Kind: plparser.EventPlaylistEnd, Bracket: plparser.Bracket{Kind: plparser.PlaylistEnd, URI: "b"}},
		{Kind: plparser.EventPlaylistEnd, Bracket: plparser.Bracket{Kind: plparser.PlaylistEnd, URI: "a"}},
	}
	pl := plwriter.FromEvents(events)
	if pl.Title != "Outer" {
		t.Fatalf("title = %q, want Outer", pl.Title)
	}
	if len(pl.Entries) != 2 || pl.Entries[1].URI != "y" {
		t.Fatalf("entries = %+v", pl.Entries)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.xspf")
	if err := plwriter.Save(path, mix()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<title>Road Trip</title>")) {
		t.Fatalf("unexpected xspf:\n%s", data)
	}

	err = plwriter.Save(filepath.Join(dir, "list.txt"), mix())
	if !errors.Is(err, plwriter.ErrUnknownFormat) {
		t.Fatalf("Save(.txt) error = %v, want ErrUnknownFormat", err)
	}
}
