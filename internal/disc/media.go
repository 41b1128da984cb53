package disc

import (
	"fmt"
	"os"
	"path/filepath"

	"plparse/internal/uri"
)

// MediaType is what a disc, image or directory turned out to hold.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaData
	MediaCDDA
	MediaVCD
	MediaDVD
	MediaBluRay
)

// String implements fmt.Stringer.
func (m MediaType) String() string {
	switch m {
	case MediaData:
		return "data"
	case MediaCDDA:
		return "cdda"
	case MediaVCD:
		return "vcd"
	case MediaDVD:
		return "dvd"
	case MediaBluRay:
		return "bluray"
	default:
		return "unknown"
	}
}

// Scheme returns the MRL scheme players use for m, or "" for plain data.
func (m MediaType) Scheme() string {
	switch m {
	case MediaCDDA:
		return "cdda"
	case MediaVCD:
		return "vcd"
	case MediaDVD:
		return "dvd"
	case MediaBluRay:
		return "bluray"
	default:
		return ""
	}
}

// MRL builds "<scheme>://<local path>" for a disc location.
func MRL(m MediaType, location string) string {
	scheme := m.Scheme()
	if scheme == "" {
		return ""
	}
	if p, ok := uri.ToPath(location); ok {
		location = p
	}
	return scheme + "://" + location
}

// markers lists the files that identify each video disc layout. Older
// mastering tools wrote lower-case names, so both spellings are probed.
var markers = []struct {
	media MediaType
	dir   string
	file  string
}{
	{MediaVCD, "MPEGAV", "AVSEQ01.DAT"},
	{MediaVCD, "MPEG2", "AVSEQ01.MPG"},
	{MediaDVD, "VIDEO_TS", "VIDEO_TS.IFO"},
	{MediaBluRay, "BDMV", "index.bdmv"},
}

// Marker is a slash separated path, relative to a disc root, whose presence
// identifies a layout.
type Marker struct {
	Media MediaType
	Path  string
}

// LayoutMarkers returns every marker spelling in probe order.
func LayoutMarkers() []Marker {
	var out []Marker
	for _, m := range markers {
		for _, d := range caseVariants(m.dir) {
			for _, f := range caseVariants(m.file) {
				out = append(out, Marker{Media: m.media, Path: d + "/" + f})
			}
		}
	}
	return out
}

// DetectDir inspects the layout below dir. A directory without disc markers
// is MediaData.
func DetectDir(dir string) (MediaType, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return MediaUnknown, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return MediaUnknown, fmt.Errorf("%s is not a directory", dir)
	}
	for _, marker := range LayoutMarkers() {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(marker.Path)))
		if err == nil && info.Mode().IsRegular() {
			return marker.Media, nil
		}
	}
	return MediaData, nil
}

func caseVariants(name string) []string {
	lower := toLowerASCII(name)
	if lower == name {
		return []string{name}
	}
	return []string{name, lower}
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
