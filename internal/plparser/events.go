package plparser

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

// Metadata keys set by the decoders.
const (
	MetaAuthor      = "author"
	MetaAlbum       = "album"
	MetaDuration    = "duration"
	MetaStartTime   = "starttime"
	MetaAbstract    = "abstract"
	MetaDescription = "description"
	MetaCopyright   = "copyright"
	MetaMoreInfo    = "moreinfo"
	MetaImage       = "image"
	MetaLanguage    = "language"
	MetaPubDate     = "pubdate"
	MetaFileSize    = "filesize"
	MetaContentType = "content-type"
	MetaID          = "id"
	MetaVolume      = "volume"
	MetaAutoplay    = "autoplay"
	MetaHLSVariants = "hls-variants"
	MetaLive        = "live"
)

// Metadata holds optional descriptive fields. Absent keys mean "none".
type Metadata map[string]string

// Entry is one media item found while resolving.
type Entry struct {
	URI      string   `json:"uri"`
	Title    string   `json:"title,omitempty"`
	Genre    string   `json:"genre,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// BracketKind distinguishes the start and end of a playlist.
type BracketKind int

const (
	PlaylistStart BracketKind = iota
	PlaylistEnd
)

// String implements fmt.Stringer.
func (k BracketKind) String() string {
	if k == PlaylistEnd {
		return "playlist-end"
	}
	return "playlist-start"
}

// Bracket marks where a titled playlist begins or ends in the event stream.
type Bracket struct {
	Kind     BracketKind `json:"-"`
	URI      string      `json:"uri"`
	Title    string      `json:"title,omitempty"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// Listener receives resolution events on the goroutine that called Resolve.
type Listener interface {
	EntryParsed(Entry)
	PlaylistStarted(Bracket)
	PlaylistEnded(Bracket)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Entry func(Entry)
	Start func(Bracket)
	End   func(Bracket)
}

func (f ListenerFuncs) EntryParsed(e Entry) {
	if f.Entry != nil {
		f.Entry(e)
	}
}

func (f ListenerFuncs) PlaylistStarted(b Bracket) {
	if f.Start != nil {
		f.Start(b)
	}
}

func (f ListenerFuncs) PlaylistEnded(b Bracket) {
	if f.End != nil {
		f.End(b)
	}
}

// EventKind tags an Event.
type EventKind string

const (
	EventEntry         EventKind = "entry"
	EventPlaylistStart EventKind = "playlist-start"
	EventPlaylistEnd   EventKind = "playlist-end"
)

// Event is either an entry or a playlist bracket.
type Event struct {
	Kind    EventKind
	Entry   Entry
	Bracket Bracket
}

type eventJSON struct {
	Type     EventKind `json:"type"`
	URI      string    `json:"uri"`
	Title    string    `json:"title,omitempty"`
	Genre    string    `json:"genre,omitempty"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

// MarshalJSON flattens the event into {"type": ..., "uri": ...}.
func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{Type: e.Kind}
	if e.Kind == EventEntry {
		out.URI, out.Title, out.Genre, out.Metadata = e.Entry.URI, e.Entry.Title, e.Entry.Genre, e.Entry.Metadata
	} else {
		out.URI, out.Title, out.Metadata = e.Bracket.URI, e.Bracket.Title, e.Bracket.Metadata
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case EventEntry:
		*e = Event{Kind: EventEntry, Entry: Entry{URI: in.URI, Title: in.Title, Genre: in.Genre, Metadata: in.Metadata}}
	case EventPlaylistStart, EventPlaylistEnd:
		kind := PlaylistStart
		if in.Type == EventPlaylistEnd {
			kind = PlaylistEnd
		}
		*e = Event{Kind: in.Type, Bracket: Bracket{Kind: kind, URI: in.URI, Title: in.Title, Metadata: in.Metadata}}
	default:
		return fmt.Errorf("unknown event type %q", in.Type)
	}
	return nil
}

// URI returns the entry or bracket URI.
func (e Event) URI() string {
	if e.Kind == EventEntry {
		return e.Entry.URI
	}
	return e.Bracket.URI
}

// Title returns the entry or bracket title.
func (e Event) Title() string {
	if e.Kind == EventEntry {
		return e.Entry.Title
	}
	return e.Bracket.Title
}

func entryEvent(e Entry) Event { return Event{Kind: EventEntry, Entry: e} }

func bracketEvent(b Bracket) Event {
	if b.Kind == PlaylistEnd {
		return Event{Kind: EventPlaylistEnd, Bracket: b}
	}
	return Event{Kind: EventPlaylistStart, Bracket: b}
}

// Collector records every event. It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) EntryParsed(e Entry) { c.add(entryEvent(e)) }

func (c *Collector) PlaylistStarted(b Bracket) { c.add(bracketEvent(b)) }

func (c *Collector) PlaylistEnded(b Bracket) { c.add(bracketEvent(b)) }

func (c *Collector) add(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// Events returns a copy of everything collected so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Entries returns only the entries, in emission order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	for _, ev := range c.events {
		if ev.Kind == EventEntry {
			out = append(out, ev.Entry)
		}
	}
	return out
}

// multiListener fans events out to several listeners.
type multiListener []Listener

func (m multiListener) EntryParsed(e Entry) {
	for _, l := range m {
		l.EntryParsed(cloneEntry(e))
	}
}

func (m multiListener) PlaylistStarted(b Bracket) {
	for _, l := range m {
		l.PlaylistStarted(b)
	}
}

func (m multiListener) PlaylistEnded(b Bracket) {
	for _, l := range m {
		l.PlaylistEnded(b)
	}
}

// Tee returns a Listener forwarding every event to each of listeners.
func Tee(listeners ...Listener) Listener {
	var out multiListener
	for _, l := range listeners {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func cloneEntry(e Entry) Entry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}
