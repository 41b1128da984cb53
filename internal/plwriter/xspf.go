package plwriter

import (
	"encoding/xml"
	"fmt"
	"io"

	"plparse/internal/plparser"
	"plparse/internal/uri"
)

const xspfNamespace = "http://xspf.org/ns/0/"

type xspfPlaylist struct {
	XMLName xml.Name    `xml:"playlist"`
	Version string      `xml:"version,attr"`
	XMLNS   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title,omitempty"`
	Tracks  []xspfTrack `xml:"trackList>track"`
}

type xspfTrack struct {
	Location   string `xml:"location"`
	Title      string `xml:"title,omitempty"`
	Creator    string `xml:"creator,omitempty"`
	Album      string `xml:"album,omitempty"`
	Image      string `xml:"image,omitempty"`
	Annotation string `xml:"annotation,omitempty"`
}

func writeXSPF(w io.Writer, pl Playlist, output string) error {
	doc := xspfPlaylist{Version: "1", XMLNS: xspfNamespace, Title: pl.Title}
	for _, e := range pl.Entries {
		loc := location(e.URI, output)
		if loc != e.URI {
			// XSPF locations are URI references.
			loc = uri.EscapePath(loc)
		}
		doc.Tracks = append(doc.Tracks, xspfTrack{
			Location:   loc,
			Title:      e.Title,
			Creator:    e.Metadata[plparser.MetaAuthor],
			Album:      e.Metadata[plparser.MetaAlbum],
			Image:      e.Metadata[plparser.MetaImage],
			Annotation: e.Metadata[plparser.MetaDescription],
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xspf: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
