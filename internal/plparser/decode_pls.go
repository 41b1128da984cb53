package plparser

import (
	"context"
	"strconv"
	"strings"

	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

func decodePLS(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	if len(data) == 0 {
		return Success, nil
	}
	return decodePLSContents(ctx, s, req, data), nil
}

// decodePLSContents parses an INI style playlist. It is shared with the M3U
// decoder, which finds PLS bodies behind .m3u names.
func decodePLSContents(ctx context.Context, s *Session, req Request, data []byte) Result {
	if !mimetype.IsPLS(data) {
		return Unhandled
	}
	text := string(data)
	dos := strings.Contains(text, "\r")
	keys := keyValues(splitLines(text), "")

	count, err := strconv.Atoi(keys["numberofentries"])
	if err != nil || count < 0 {
		return Error
	}

	defer s.titledPlaylist(req.URI, keys["x-gnome-title"], nil)()

	last := min(count, highestFileIndex(keys))
	for i := 1; i <= last; i++ {
		if ctx.Err() != nil {
			return Error
		}
		n := strconv.Itoa(i)
		file := keys["file"+n]
		if file == "" {
			continue
		}
		if dos {
			file = strings.ReplaceAll(file, `\`, "/")
		}
		ref := file
		if !uri.IsAbsolute(file) {
			ref = uri.EscapePath(file)
		}
		s.resolveEntry(ctx, req.Context, Entry{
			URI:   s.resolveRef(req, ref),
			Title: keys["title"+n],
			Genre: keys["genre"+n],
		})
	}
	return Success
}

// highestFileIndex returns the largest N with a FileN key, bounding the entry
// loop by what the document holds rather than by its declared count.
func highestFileIndex(keys map[string]string) int {
	highest := 0
	for key := range keys {
		suffix, ok := strings.CutPrefix(key, "file")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
