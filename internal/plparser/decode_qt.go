package plparser

import (
	"bytes"
	"context"
	"encoding/xml"
	"regexp"
	"strings"

	"plparse/internal/mimetype"
)

const qtMediaLink = "application/x-quicktime-media-link"

var procInstType = regexp.MustCompile(`(?i)type\s*=\s*["']([^"']*)["']`)

// decodeQuickTime handles QuickTime names. Only reference movies in one of
// the text forms are parsed; anything else is the movie itself.
func decodeQuickTime(ctx context.Context, s *Session, req Request) (Result, error) {
	if req.Sample == nil || !mimetype.IsQuickTime(req.Sample) {
		s.emit(Entry{URI: req.URI})
		return Success, nil
	}
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	trimmed := mimetype.TrimLeading(data)
	switch {
	case hasPrefixFold(trimmed, "rtsptext"):
		return decodeRTSPText(s, trimmed), nil
	case hasPrefixFold(trimmed, "smiltext"):
		return decodeSMILData(ctx, s, req, trimmed[len("smiltext"):]), nil
	}

	if !quickTimeMediaLink(data) {
		return Error, nil
	}
	root, err := parseXML(data)
	if err != nil || root.name != "embed" {
		return Error, nil
	}
	src := root.attr("src")
	if src == "" {
		return Error, nil
	}
	autoplay := root.attr("autoplay")
	if autoplay == "" {
		autoplay = "true"
	}
	s.emit(Entry{URI: s.resolveRef(req, src), Metadata: Metadata{MetaAutoplay: autoplay}})
	return Success, nil
}

func decodeRTSPText(s *Session, data []byte) Result {
	lines := splitLines(string(data))
	target := strings.TrimSpace(lines[0][len("rtsptext"):])
	if target == "" && len(lines) > 1 {
		target = strings.TrimSpace(lines[1])
	}
	if target == "" {
		return Error
	}
	keys := keyValues(lines[1:], "")
	s.emit(Entry{URI: target, Metadata: Metadata{
		MetaVolume:   keys["volume"],
		MetaAutoplay: keys["autoplay"],
	}})
	return Success
}

// quickTimeMediaLink reports the processing instruction that marks an XML
// QuickTime reference movie.
func quickTimeMediaLink(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = charsetReader
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			if !strings.EqualFold(t.Target, "quicktime") {
				continue
			}
			if m := procInstType.FindSubmatch(t.Inst); m != nil && strings.EqualFold(string(m[1]), qtMediaLink) {
				return true
			}
		case xml.StartElement:
			return false
		}
	}
}

func hasPrefixFold(data []byte, prefix string) bool {
	return len(data) >= len(prefix) && bytes.EqualFold(data[:len(prefix)], []byte(prefix))
}
