package uri_test

import (
	"testing"

	"plparse/internal/uri"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "absolute uri verbatim", base: "http://h/a/list.m3u", ref: "mms://x/y", want: "mms://x/y"},
		{name: "no base", base: "", ref: "a.mp3", want: "a.mp3"},
		{name: "sibling", base: "http://h/a/list.m3u", ref: "b.mp3", want: "http://h/a/b.mp3"},
		{name: "parent with query", base: "http://h/a/list.m3u?x=1#frag", ref: "../c.mp3", want: "http://h/c.mp3"},
		{name: "root path against remote base is local", base: "http://h/a/list.m3u", ref: "/root.mp3", want: "file:///root.mp3"},
		{name: "root path without base", base: "", ref: "/music/My%20Song.mp3", want: "file:///music/My%20Song.mp3"},
		{name: "directory base", base: "http://h/dir/", ref: "x.ogg", want: "http://h/dir/x.ogg"},
		{name: "file spaces escaped", base: "file:///music/list.m3u", ref: "My Song.mp3", want: "file:///music/My%20Song.mp3"},
		{name: "file already escaped", base: "file:///music/list.m3u", ref: "My%20Song.mp3", want: "file:///music/My%20Song.mp3"},
		{name: "file hash is literal", base: "file:///music/list.m3u", ref: "a#1.mp3", want: "file:///music/a%231.mp3"},
		{name: "file absolute path", base: "file:///music/list.m3u", ref: "/abs.mp3", want: "file:///abs.mp3"},
		{name: "plain path base", base: "/music/list.m3u", ref: "a.mp3", want: "file:///music/a.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uri.Resolve(tt.base, tt.ref); got != tt.want {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

func TestBase(t *testing.T) {
	tests := map[string]string{
		"http://h/a/list.m3u?x=1": "http://h/a",
		"http://h/list.m3u":       "http://h/",
		"file:///music/sub/":      "file:///music",
		"/music/list.m3u":         "/music",
		"":                        "",
	}
	for in, want := range tests {
		if got := uri.Base(in); got != want {
			t.Fatalf("Base(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRelativeTo(t *testing.T) {
	if got := uri.RelativeTo("file:///music/sub/My%20Song.mp3", "/music/out.m3u"); got != "sub/My Song.mp3" {
		t.Fatalf("unexpected relative path: got %q", got)
	}
	if got := uri.RelativeTo("file:///other/a.mp3", "/music/out.m3u"); got != "" {
		t.Fatalf("expected no relative path outside output dir, got %q", got)
	}
	if got := uri.RelativeTo("file:///musicbox/a.mp3", "/music/out.m3u"); got != "" {
		t.Fatalf("expected prefix match to respect path boundary, got %q", got)
	}
}

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"HTTP://host/":     "http",
		"mms://x":          "mms",
		`C:\music\a.mp3`:   "",
		"song.mp3":         "",
		"svn+ssh://h/repo": "svn+ssh",
		"1abc://x":         "",
	}
	for in, want := range tests {
		if got := uri.Scheme(in); got != want {
			t.Fatalf("Scheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUNCToSMB(t *testing.T) {
	got, ok := uri.UNCToSMB(`\\server\share\dir\song.mp3`)
	if !ok || got != "smb://server/share/dir/song.mp3" {
		t.Fatalf("unexpected smb rewrite: %q %v", got, ok)
	}
	if _, ok := uri.UNCToSMB(`dir\song.mp3`); ok {
		t.Fatal("expected relative dos path to be rejected")
	}
}

func TestToPathAndFromPath(t *testing.T) {
	u := uri.FromPath("/tmp/a b/c.m3u")
	if u != "file:///tmp/a%20b/c.m3u" {
		t.Fatalf("unexpected file uri: %q", u)
	}
	p, ok := uri.ToPath(u)
	if !ok || p != "/tmp/a b/c.m3u" {
		t.Fatalf("unexpected path: %q %v", p, ok)
	}
	if _, ok := uri.ToPath("http://h/x"); ok {
		t.Fatal("expected remote uri to have no local path")
	}
}

func TestDisplayNameAndRewrite(t *testing.T) {
	if got := uri.DisplayName("file:///media/My%20Disc/"); got != "My Disc" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := uri.RewriteScheme("HTTP://h/s", "http", "mmsh"); got != "mmsh://h/s" {
		t.Fatalf("unexpected rewrite: %q", got)
	}
	if got := uri.RewriteScheme("rtsp://h/s", "http", "mmsh"); got != "rtsp://h/s" {
		t.Fatalf("expected untouched uri, got %q", got)
	}
}
