package plparser_test

import (
	"encoding/binary"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"plparse/internal/fetch"
	"plparse/internal/plparser"
)

const asxPlaylist = `<ASX version="3.0">
<Title>Radio</Title>
<Entry>
  <Ref href="http://example.com/a.mp3"/>
  <Title>First</Title>
  <Author>Someone</Author>
  <Duration value="00:03:00"/>
</Entry>
<Base href="http://cdn.example.com/media/"/>
<Entry><ref HREF="b.mp3"/></Entry>
<Repeat><Entry><Ref href="mms://live.example.com/c"/></Entry></Repeat>
<EntryRef href="nested.asx"/>
<Entry><Param name="ShowWhileBuffering" value="true"/><Ref href="ad.gif"/></Entry>
</ASX>`

func TestASX(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/list.asx", asxPlaylist)
	mem.PutString("http://cdn.example.com/media/nested.asx", `<asx version="3.0"><entry><ref href="d.mp3"/></entry></asx>`)
	p := newParser(t, mem)

	result, c := resolve(t, p, "http://example.com/list.asx", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	entries := c.Entries()
	expectURIs(t, entries,
		"http://example.com/a.mp3",
		"http://cdn.example.com/media/b.mp3",
		"mms://live.example.com/c",
		"http://cdn.example.com/media/d.mp3",
	)
	if entries[0].Title != "First" || entries[0].Metadata[plparser.MetaAuthor] != "Someone" {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[0].Metadata[plparser.MetaDuration] != "00:03:00" {
		t.Fatalf("duration = %q", entries[0].Metadata[plparser.MetaDuration])
	}
	if entries[1].Title != "Radio" {
		t.Fatalf("untitled entry should take the playlist title, got %q", entries[1].Title)
	}

	events := c.Events()
	if events[0].Kind != plparser.EventPlaylistStart || events[0].Title() != "Radio" {
		t.Fatalf("first event = %+v, want Radio bracket", events[0])
	}
	if last := events[len(events)-1]; last.Kind != plparser.EventPlaylistEnd {
		t.Fatalf("last event = %+v, want end bracket", last)
	}
}

func TestASXPreferredScheme(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/multi.wvx", `<asx version="3.0"><entry>
<ref href="http://example.com/stream"/>
<ref href="mms://example.com/stream"/>
</entry></asx>`)

	for _, tt := range []struct {
		name      string
		preferred []string
		want      string
	}{
		{name: "document order", want: "http://example.com/stream"},
		{name: "preferred", preferred: []string{"rtsp", "mms"}, want: "mms://example.com/stream"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plparser.DefaultConfig()
			cfg.PreferredSchemes = tt.preferred
			p := newParser(t, mem, plparser.WithConfig(cfg))
			_, c := resolve(t, p, "http://example.com/multi.wvx", plparser.ResolveOptions{})
			expectURIs(t, c.Entries(), tt.want)
		})
	}
}

func TestASXWithoutUsableEntries(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/empty.wax", `<asx version="3.0"><entry><title>No refs</title></entry></asx>`)
	mem.PutString("http://example.com/other.wax", `<playlist/>`)
	p := newParser(t, mem)

	for _, target := range []string{"http://example.com/empty.wax", "http://example.com/other.wax"} {
		if result, _ := resolve(t, p, target, plparser.ResolveOptions{}); result != plparser.Error {
			t.Fatalf("%s: result = %s, want error", target, result)
		}
	}
}

func TestRAM(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/show.ram", "rtsp://real.example.com/show.rm\n# comment\n--stop--\nrtsp://real.example.com/ignored.rm\n")
	mem.Put("http://example.com/clip.rm", []byte{'.', 'R', 'M', 'F', 0x00, 0x00, 0x00, 0x12})
	p := newParser(t, mem)

	_, c := resolve(t, p, "http://example.com/show.ram", plparser.ResolveOptions{})
	expectURIs(t, c.Entries(), "rtsp://real.example.com/show.rm")

	_, c = resolve(t, p, "http://example.com/clip.rm", plparser.ResolveOptions{})
	expectURIs(t, c.Entries(), "http://example.com/clip.rm")
}

func TestRSS(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://feeds.example.com/show.rss", `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
  <title>The Show</title>
  <itunes:author>Host</itunes:author>
  <itunes:image href="http://feeds.example.com/cover.jpg"/>
  <itunes:category text="Technology"/>
  <item>
    <title>Episode 2</title>
    <enclosure url="http://cdn.example.com/ep2.mp3" length="1234" type="audio/mpeg"/>
    <pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate>
    <itunes:duration>42:00</itunes:duration>
  </item>
  <item><title>Text only</title></item>
  <item>
    <title>Episode 1</title>
    <enclosure url="ep1.mp3" type="audio/mpeg"/>
  </item>
</channel>
</rss>`)
	p := newParser(t, mem)

	result, c := resolve(t, p, "http://feeds.example.com/show.rss", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	events := c.Events()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(events), events)
	}
	start := events[0]
	if start.Kind != plparser.EventPlaylistStart || start.Title() != "The Show" {
		t.Fatalf("start = %+v", start)
	}
	if start.Bracket.Metadata[plparser.MetaImage] != "http://feeds.example.com/cover.jpg" {
		t.Fatalf("feed image = %q", start.Bracket.Metadata[plparser.MetaImage])
	}

	entries := c.Entries()
	expectURIs(t, entries, "http://cdn.example.com/ep2.mp3", "http://feeds.example.com/ep1.mp3")
	ep2 := entries[0]
	if ep2.Title != "Episode 2" || ep2.Genre != "Technology" {
		t.Fatalf("episode = %+v", ep2)
	}
	for key, want := range map[string]string{
		plparser.MetaAuthor:      "Host",
		plparser.MetaDuration:    "42:00",
		plparser.MetaFileSize:    "1234",
		plparser.MetaContentType: "audio/mpeg",
		plparser.MetaPubDate:     "Tue, 02 Jan 2024 10:00:00 GMT",
	} {
		if got := ep2.Metadata[key]; got != want {
			t.Fatalf("metadata %s = %q, want %q", key, got, want)
		}
	}
}

func TestPodcastScheme(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://feeds.example.com/pod", `<rss><channel><title>Pod</title>
<item><enclosure url="http://cdn.example.com/1.mp3"/></item></channel></rss>`)
	p := newParser(t, mem)

	_, c := resolve(t, p, "itpc://feeds.example.com/pod", plparser.ResolveOptions{})
	expectURIs(t, c.Entries(), "http://cdn.example.com/1.mp3")
	if events := c.Events(); events[0].URI() != "itpc://feeds.example.com/pod" {
		t.Fatalf("bracket uri = %q", events[0].URI())
	}
}

func TestAtom(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/feed.atom", `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Show</title>
  <author><name>Writer</name></author>
  <logo>http://example.com/logo.png</logo>
  <entry>
    <title>Part One</title>
    <id>urn:uuid:1</id>
    <link rel="alternate" href="http://example.com/part1.html"/>
    <link rel="enclosure" href="http://example.com/part1.ogg" type="audio/ogg" length="99"/>
    <updated>2024-01-01T00:00:00Z</updated>
  </entry>
  <entry><title>No media</title><link href="http://example.com/post"/></entry>
</feed>`)
	p := newParser(t, mem)

	result, c := resolve(t, p, "http://example.com/feed.atom", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	entries := c.Entries()
	expectURIs(t, entries, "http://example.com/part1.ogg")
	e := entries[0]
	if e.Title != "Part One" || e.Metadata[plparser.MetaAuthor] != "Writer" || e.Metadata[plparser.MetaID] != "urn:uuid:1" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Metadata[plparser.MetaPubDate] != "2024-01-01T00:00:00Z" {
		t.Fatalf("pubdate = %q", e.Metadata[plparser.MetaPubDate])
	}
}

func TestXSPF(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("file:///lists/mix.xspf", `<?xml version="1.0" encoding="UTF-8"?>
<playlist version="1" xmlns="http://xspf.org/ns/0/">
  <title>Mix</title>
  <creator>DJ</creator>
  <trackList>
    <track>
      <location>song.ogg</location>
      <title>Song</title>
      <creator>Band</creator>
      <album>Record</album>
      <duration>180000</duration>
    </track>
    <track><title>No location</title></track>
    <track><location>http://example.com/remote.ogg</location></track>
  </trackList>
</playlist>`)
	p := newParser(t, mem)

	result, c := resolve(t, p, "file:///lists/mix.xspf", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	entries := c.Entries()
	expectURIs(t, entries, "file:///lists/song.ogg", "http://example.com/remote.ogg")
	if entries[0].Title != "Song" || entries[0].Metadata[plparser.MetaAlbum] != "Record" || entries[0].Metadata[plparser.MetaAuthor] != "Band" {
		t.Fatalf("track = %+v", entries[0])
	}
	if events := c.Events(); events[0].Title() != "Mix" {
		t.Fatalf("bracket title = %q, want Mix", events[0].Title())
	}
}

func TestXSPFBase(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("file:///lists/based.xspf", `<playlist version="1" xmlns="http://xspf.org/ns/0/" xml:base="http://media.example.com/music/">
<trackList><track><location>a.ogg</location></track></trackList></playlist>`)
	p := newParser(t, mem)

	_, c := resolve(t, p, "file:///lists/based.xspf", plparser.ResolveOptions{})
	expectURIs(t, c.Entries(), "http://media.example.com/music/a.ogg")
}

func TestSMIL(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/show.smil", `<smil>
<head><meta name="title" content="Show"/><meta name="base" content="rtsp://stream.example.com/show/"/></head>
<body><seq>
  <video src="intro.rm" dur="10s"/>
  <par><audio src="main.ra" title="Main"/></par>
</seq></body>
</smil>`)
	mem.PutString("http://example.com/blank.smil", `<smil><body><seq/></body></smil>`)
	p := newParser(t, mem)

	result, c := resolve(t, p, "http://example.com/show.smil", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	entries := c.Entries()
	expectURIs(t, entries, "rtsp://stream.example.com/show/intro.rm", "rtsp://stream.example.com/show/main.ra")
	if entries[0].Title != "Show" || entries[1].Title != "Main" {
		t.Fatalf("titles = %q, %q", entries[0].Title, entries[1].Title)
	}

	if result, _ := resolve(t, p, "http://example.com/blank.smil", plparser.ResolveOptions{}); result != plparser.Error {
		t.Fatalf("empty smil result = %s, want error", result)
	}
}

func TestGVP(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://video.example.com/clip.gvp",
		"#.download.the.free.Google.Video.Player.from.http://video.google.com/\n"+
			"gvp_version:1.1\nurl:http://vp.example.com/videoplayback?id=1\ntitle:Clip\nduration:42\n")
	mem.PutString("http://video.example.com/old.gvp",
		"#.download.the.free.Google.Video.Player\ngvp_version:1.0\nurl:http://vp.example.com/old\n")
	p := newParser(t, mem)

	_, c := resolve(t, p, "http://video.example.com/clip.gvp", plparser.ResolveOptions{})
	entries := c.Entries()
	expectURIs(t, entries, "http://vp.example.com/videoplayback?id=1")
	if entries[0].Title != "Clip" || entries[0].Metadata[plparser.MetaDuration] != "42" {
		t.Fatalf("entry = %+v", entries[0])
	}

	if result, _ := resolve(t, p, "http://video.example.com/old.gvp", plparser.ResolveOptions{}); result != plparser.Unhandled {
		t.Fatalf("old version result = %s, want unhandled", result)
	}
}

func TestQuickTime(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("http://example.com/trailer.mov", "RTSPtextRTSP://stream.example.com/trailer.mov\nvolume=80\n")
	mem.PutString("http://example.com/link.qtl", `<?xml version="1.0"?>
<?quicktime type="application/x-quicktime-media-link"?>
<embed src="movies/full.mov" autoplay="false"/>`)
	mem.Put("http://example.com/real.mov", []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p', 'q', 't'})
	p := newParser(t, mem)

	_, c := resolve(t, p, "http://example.com/trailer.mov", plparser.ResolveOptions{})
	entries := c.Entries()
	expectURIs(t, entries, "RTSP://stream.example.com/trailer.mov")
	if entries[0].Metadata[plparser.MetaVolume] != "80" {
		t.Fatalf("volume = %q", entries[0].Metadata[plparser.MetaVolume])
	}

	_, c = resolve(t, p, "http://example.com/link.qtl", plparser.ResolveOptions{})
	entries = c.Entries()
	expectURIs(t, entries, "http://example.com/movies/full.mov")
	if entries[0].Metadata[plparser.MetaAutoplay] != "false" {
		t.Fatalf("autoplay = %q", entries[0].Metadata[plparser.MetaAutoplay])
	}

	_, c = resolve(t, p, "http://example.com/real.mov", plparser.ResolveOptions{})
	expectURIs(t, c.Entries(), "http://example.com/real.mov")
}

func TestDesktop(t *testing.T) {
	mem := fetch.NewMemory()
	mem.PutString("file:///apps/radio.desktop", "[Desktop Entry]\nType=Link\nName=Radio\nURL=http://example.com/stream.mp3\n")
	mem.PutString("file:///apps/app.desktop", "[Desktop Entry]\nType=Application\nExec=player\n")
	p := newParser(t, mem)

	_, c := resolve(t, p, "file:///apps/radio.desktop", plparser.ResolveOptions{})
	entries := c.Entries()
	expectURIs(t, entries, "http://example.com/stream.mp3")
	if entries[0].Title != "Radio" {
		t.Fatalf("title = %q, want Radio", entries[0].Title)
	}

	if result, _ := resolve(t, p, "file:///apps/app.desktop", plparser.ResolveOptions{}); result != plparser.Error {
		t.Fatalf("application entry result = %s, want error", result)
	}
}

func plaFixture(t *testing.T, title string, paths ...string) []byte {
	t.Helper()
	data := make([]byte, 512*(len(paths)+1))
	binary.BigEndian.PutUint32(data[:4], uint32(len(paths)))
	copy(data[4:], "iriver UMS PLA")
	copy(data[32:], title)
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	for i, p := range paths {
		raw, err := enc.Bytes([]byte(p))
		if err != nil {
			t.Fatalf("encode %q: %v", p, err)
		}
		copy(data[512*(i+1)+2:], raw)
	}
	return data
}

func TestPLA(t *testing.T) {
	mem := fetch.NewMemory()
	mem.Put("file:///player/list.pla", plaFixture(t, "Road Trip", `\Music\Song One.mp3`, `Music\two.mp3`))
	mem.Put("file:///player/short.pla", []byte("iriver"))
	p := newParser(t, mem)

	result, c := resolve(t, p, "file:///player/list.pla", plparser.ResolveOptions{})
	if result != plparser.Success {
		t.Fatalf("result = %s, want success", result)
	}
	expectURIs(t, c.Entries(), "file:///Music/Song%20One.mp3", "file:///Music/two.mp3")
	if events := c.Events(); events[0].Title() != "Road Trip" {
		t.Fatalf("bracket title = %q, want Road Trip", events[0].Title())
	}

	result, c = resolve(t, p, "file:///player/short.pla", plparser.ResolveOptions{})
	if result != plparser.Success || len(c.Events()) != 0 {
		t.Fatalf("short file = %s with %d events", result, len(c.Events()))
	}
}
