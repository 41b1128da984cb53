// Package mimetype classifies playlist and media resources by name and by a
// sample of their leading bytes.
//
// Name-based classification is a fixed extension table so results do not
// depend on the host's shared MIME database. Content sniffing lives in
// sniff.go and is the only place that knows the magic strings of each
// playlist grammar.
package mimetype

import (
	"path"
	"strings"

	"plparse/internal/uri"
)

// TypeID is a validated MIME type string.
type TypeID string

const (
	Unknown      TypeID = ""
	Binary       TypeID = "application/octet-stream"
	Empty        TypeID = "application/x-zerosize"
	PlainText    TypeID = "text/plain"
	XML          TypeID = "application/xml"
	Directory    TypeID = "x-directory/normal"
	BlockDevice  TypeID = "x-special/device-block"
	M3U          TypeID = "audio/x-mpegurl"
	M3UAlt       TypeID = "audio/mpegurl"
	M3UApple     TypeID = "application/vnd.apple.mpegurl"
	M3UPlaylist  TypeID = "audio/playlist"
	PLS          TypeID = "audio/x-scpls"
	WVX          TypeID = "video/x-ms-wvx"
	WAX          TypeID = "audio/x-ms-wax"
	ASX          TypeID = "audio/x-ms-asx"
	ASF          TypeID = "video/x-ms-asf"
	WMV          TypeID = "video/x-ms-wmv"
	SMIL         TypeID = "application/smil"
	SMILAlt      TypeID = "application/x-smil"
	XSPF         TypeID = "application/xspf+xml"
	URIList      TypeID = "text/uri-list"
	RAM          TypeID = "application/ram"
	RealAudio    TypeID = "audio/x-pn-realaudio"
	RealAudioAlt TypeID = "audio/x-real-audio"
	RealAudioVnd TypeID = "audio/vnd.rn-realaudio"
	RealAudioX   TypeID = "audio/x-realaudio"
	RealPlugin   TypeID = "audio/x-pn-realaudio-plugin"
	RealMedia    TypeID = "application/vnd.rn-realmedia"
	QuickTime    TypeID = "video/quicktime"
	QTLink       TypeID = "application/x-quicktime-media-link"
	QTPlayer     TypeID = "application/x-quicktimeplayer"
	GVP          TypeID = "text/x-google-video-pointer"
	GVPAlt       TypeID = "text/google-video-pointer"
	PLA          TypeID = "audio/x-iriver-pla"
	RSS          TypeID = "application/rss+xml"
	Atom         TypeID = "application/atom+xml"
	Podcast      TypeID = "application/x-podcast"
	Desktop      TypeID = "application/x-desktop"
	GnomeAppInfo TypeID = "application/x-gnome-app-info"
	ISO          TypeID = "application/x-cd-image"
	IMG          TypeID = "application/x-extension-img"
	Cue          TypeID = "application/x-cue"
	Zip          TypeID = "application/zip"
	Rar          TypeID = "application/x-rar"
	Trash        TypeID = "application/x-trash"
	MP3          TypeID = "audio/mpeg"
)

// String implements fmt.Stringer.
func (t TypeID) String() string {
	if t == Unknown {
		return "unknown"
	}
	return string(t)
}

// IsUnknown reports whether t carries no usable classification.
func (t TypeID) IsUnknown() bool {
	return t == Unknown || t == Binary
}

// Family returns the supertype of t ("audio" for "audio/ogg").
func (t TypeID) Family() string {
	s := string(t)
	if i := strings.IndexByte(s, '/'); i > 0 {
		return s[:i]
	}
	return s
}

// Matches reports whether t is covered by pattern. Patterns are exact types,
// family wildcards ("image/*") or bare supertypes ("image").
func (t TypeID) Matches(pattern string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" || t == Unknown {
		return false
	}
	if pattern == string(t) {
		return true
	}
	if family, ok := strings.CutSuffix(pattern, "/*"); ok {
		return family == t.Family()
	}
	if !strings.Contains(pattern, "/") {
		return pattern == t.Family()
	}
	return false
}

// Parse validates s as a TypeID. Parameters after ';' are dropped.
func Parse(s string) (TypeID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	slash := strings.IndexByte(s, '/')
	if slash <= 0 || slash == len(s)-1 || strings.Count(s, "/") != 1 || strings.ContainsAny(s, " \t") {
		return Unknown, false
	}
	return TypeID(s), true
}

var byExtension = map[string]TypeID{
	".m3u":     M3U,
	".m3u8":    M3U,
	".vlc":     M3U,
	".pls":     PLS,
	".smil":    SMIL,
	".smi":     SMIL,
	".sml":     SMIL,
	".wvx":     WVX,
	".wax":     WAX,
	".asx":     ASX,
	".wmx":     ASX,
	".asf":     ASF,
	".wmv":     WMV,
	".xspf":    XSPF,
	".uri":     URIList,
	".uris":    URIList,
	".ram":     RAM,
	".rm":      RealMedia,
	".rmvb":    RealMedia,
	".ra":      RealAudio,
	".rpm":     RealPlugin,
	".mov":     QuickTime,
	".qt":      QuickTime,
	".qtl":     QTLink,
	".gvp":     GVP,
	".pla":     PLA,
	".rss":     RSS,
	".atom":    Atom,
	".desktop": Desktop,
	".iso":     ISO,
	".img":     IMG,
	".cue":     Cue,
	".txt":     PlainText,
	".log":     "text/x-log",
	".nfo":     "text/x-nfo",
	".csv":     "text/csv",
	".htm":     "text/html",
	".html":    "text/html",
	".xml":     XML,
	".zip":     Zip,
	".rar":     Rar,
	".bak":     Trash,
	".old":     Trash,
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".png":     "image/png",
	".gif":     "image/gif",
	".bmp":     "image/bmp",
	".webp":    "image/webp",
	".svg":     "image/svg+xml",
	".tif":     "image/tiff",
	".tiff":    "image/tiff",
	".mp3":     MP3,
	".mp2":     MP3,
	".ogg":     "audio/ogg",
	".oga":     "audio/ogg",
	".opus":    "audio/ogg",
	".flac":    "audio/flac",
	".wav":     "audio/x-wav",
	".m4a":     "audio/mp4",
	".aac":     "audio/aac",
	".wma":     "audio/x-ms-wma",
	".mp4":     "video/mp4",
	".m4v":     "video/mp4",
	".mkv":     "video/x-matroska",
	".webm":    "video/webm",
	".avi":     "video/x-msvideo",
	".mpg":     "video/mpeg",
	".mpeg":    "video/mpeg",
	".ogv":     "video/ogg",
	".ts":      "video/mp2t",
}

var byScheme = map[string]TypeID{
	"itpc":  Podcast,
	"itms":  Podcast,
	"pcast": Podcast,
	"feed":  Podcast,
}

// FromName classifies s by its scheme and file extension only.
func FromName(s string) TypeID {
	if t, ok := byScheme[uri.Scheme(s)]; ok {
		return t
	}
	name := s
	if uri.HasScheme(s) {
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
	}
	if strings.HasSuffix(name, "~") {
		return Trash
	}
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return Unknown
	}
	return byExtension[ext]
}

// IsWeak reports whether a name-derived type should still be confirmed by
// sniffing. atTop marks a top-level resource, where an .mp3 may really be a
// playlist served with the wrong name.
func IsWeak(t TypeID, atTop bool) bool {
	switch t {
	case Unknown, Binary, PlainText, XML:
		return true
	case MP3:
		return atTop
	}
	return false
}
