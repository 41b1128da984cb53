package plparser

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"

	"plparse/internal/logging"
	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

const extinfPrefix = "#EXTINF:"

var extinfAttr = regexp.MustCompile(`([a-zA-Z0-9_-]+)="([^"]*)"`)

// extinf is what an #EXTINF line says about the entry that follows it.
type extinf struct {
	title    string
	duration string
	group    string
	logo     string
}

func decodeM3U(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	if mimetype.IsPLS(data) {
		return decodePLSContents(ctx, s, req, data), nil
	}
	if mimetype.IsHLS(data) {
		return decodeHLS(s, req, data), nil
	}

	text := string(data)
	dos := strings.Contains(text, "\r")
	result := Unhandled
	var pending *extinf
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result = Success
		if strings.HasPrefix(line, "#") {
			if info, ok := parseEXTINF(line); ok {
				pending = &info
			}
			continue
		}

		e := Entry{}
		if pending != nil {
			e.Title = pending.title
			e.Genre = pending.group
			e.Metadata = Metadata{MetaDuration: pending.duration, MetaImage: pending.logo}
			pending = nil
		}

		if smb, ok := uri.UNCToSMB(line); ok {
			e.URI = smb
			s.emit(e)
			continue
		}
		if dos {
			line = strings.ReplaceAll(line, `\`, "/")
		}
		e.URI = s.resolveRef(req, line)
		s.resolveEntry(ctx, req.Context, e)
		if ctx.Err() != nil {
			return Error, nil
		}
	}
	return result, nil
}

// parseEXTINF reads "#EXTINF:<duration>[ key="value"...],<title>". A line
// without a comma carries no title.
func parseEXTINF(line string) (extinf, bool) {
	rest, ok := strings.CutPrefix(line, extinfPrefix)
	if !ok {
		return extinf{}, false
	}

	var info extinf
	head, title, found := cutUnquoted(rest, ',')
	if found {
		info.title = strings.TrimSpace(title)
	}
	duration, _, _ := strings.Cut(strings.TrimSpace(head), " ")
	if secs, err := strconv.ParseFloat(duration, 64); err == nil && secs > 0 {
		info.duration = strconv.FormatFloat(secs, 'f', -1, 64)
	}
	for _, kv := range extinfAttr.FindAllStringSubmatch(head, -1) {
		switch strings.ToLower(kv[1]) {
		case "group-title":
			info.group = kv[2]
		case "tvg-logo":
			info.logo = kv[2]
		}
	}
	return info, true
}

// cutUnquoted is strings.Cut ignoring separators inside double quotes.
func cutUnquoted(s string, sep byte) (before, after string, found bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// decodeHLS reports an HTTP Live Streaming manifest as a single entry. The
// segments are parts of one stream, not separate items.
func decodeHLS(s *Session, req Request, data []byte) Result {
	pl, listType, err := m3u8.DecodeFrom(bytes.NewReader(data), false)
	if err != nil {
		s.logger.Debug("hls manifest rejected", logging.URI(req.URI), logging.Error(err))
		return Error
	}

	md := Metadata{}
	switch listType {
	case m3u8.MASTER:
		master := pl.(*m3u8.MasterPlaylist)
		md[MetaHLSVariants] = strconv.Itoa(len(master.Variants))
	case m3u8.MEDIA:
		media := pl.(*m3u8.MediaPlaylist)
		md[MetaLive] = strconv.FormatBool(!media.Closed)
		if media.Closed {
			var total float64
			for _, seg := range media.Segments {
				if seg != nil {
					total += seg.Duration
				}
			}
			md[MetaDuration] = strconv.FormatFloat(total, 'f', -1, 64)
		}
	}
	s.emit(Entry{URI: req.URI, Metadata: md})
	return Success
}
