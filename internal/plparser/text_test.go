package plparser

import (
	"testing"
)

func TestCleanText(t *testing.T) {
	for _, tt := range []struct {
		in, want string
	}{
		{in: "  plain  ", want: "plain"},
		{in: "Caf\xe9", want: "Café"},
		{in: "tab\tok", want: "tab\tok"},
		{in: "bell\x07", want: ""},
		{in: "", want: ""},
	} {
		if got := cleanText(tt.in); got != tt.want {
			t.Fatalf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanMetadataDropsEmpty(t *testing.T) {
	if md := cleanMetadata(Metadata{MetaAuthor: " ", MetaAlbum: "\x01"}); md != nil {
		t.Fatalf("cleanMetadata = %v, want nil", md)
	}
	md := cleanMetadata(Metadata{MetaAuthor: "A", MetaAlbum: ""})
	if len(md) != 1 || md[MetaAuthor] != "A" {
		t.Fatalf("cleanMetadata = %v", md)
	}
}

func TestKeyValues(t *testing.T) {
	lines := splitLines("[Other]\r\nName=Wrong\r\n[Desktop Entry]\r\n# comment\r\nName=Right\r\nNAME=Duplicate\r\nURL = http://x\r\n")

	got := keyValues(lines, "Desktop Entry")
	if got["name"] != "Right" {
		t.Fatalf("name = %q, want Right", got["name"])
	}
	if got["url"] != "http://x" {
		t.Fatalf("url = %q", got["url"])
	}

	all := keyValues(lines, "")
	if all["name"] != "Wrong" {
		t.Fatalf("ungrouped name = %q, want first occurrence", all["name"])
	}
}

func TestParseXMLIsLenient(t *testing.T) {
	root, err := parseXML([]byte(`<ASX><Entry><Title>Rock &amp; Roll Caf&eacute;</Title><Ref HREF="http://x/a.mp3">`))
	if err != nil {
		t.Fatalf("parseXML: %v", err)
	}
	if root.name != "asx" {
		t.Fatalf("root = %q, want asx", root.name)
	}
	entry := root.child("entry")
	if entry == nil {
		t.Fatal("entry missing")
	}
	if got := entry.childValue("title"); got != "Rock & Roll Café" {
		t.Fatalf("title = %q", got)
	}
	if got := entry.child("ref").attr("href"); got != "http://x/a.mp3" {
		t.Fatalf("href = %q", got)
	}

	if _, err := parseXML([]byte("   ")); err == nil {
		t.Fatal("expected error for a document without elements")
	}
}

func TestParseEXTINF(t *testing.T) {
	for _, tt := range []struct {
		line  string
		title string
		dur   string
	}{
		{line: "#EXTINF:123,Artist - Title", title: "Artist - Title", dur: "123"},
		{line: "#EXTINF:0,Zero", title: "Zero"},
		{line: "#EXTINF:12.5", dur: "12.5"},
		{line: `#EXTINF:-1 group-title="a,b",Name`, title: "Name"},
	} {
		info, ok := parseEXTINF(tt.line)
		if !ok {
			t.Fatalf("parseEXTINF(%q) not recognized", tt.line)
		}
		if info.title != tt.title || info.duration != tt.dur {
			t.Fatalf("parseEXTINF(%q) = %+v", tt.line, info)
		}
	}
	if _, ok := parseEXTINF("#EXTM3U"); ok {
		t.Fatal("header parsed as EXTINF")
	}
}
