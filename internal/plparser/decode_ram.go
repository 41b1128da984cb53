package plparser

import (
	"context"
	"strings"

	"plparse/internal/mimetype"
)

// decodeRAM handles RealMedia references and plain URI lists. A RealMedia
// name whose bytes are not a list of URIs is the media itself.
func decodeRAM(ctx context.Context, s *Session, req Request) (Result, error) {
	if req.Type != mimetype.URIList && (req.Sample == nil || !mimetype.IsURIList(req.Sample)) {
		s.emit(Entry{URI: req.URI})
		return Success, nil
	}
	return decodeRAMList(ctx, s, req)
}

// decodeTextFamily handles text types no grammar claims. A body that is a
// list of URIs is read as one; any other text is not media.
func decodeTextFamily(ctx context.Context, s *Session, req Request) (Result, error) {
	if req.Sample != nil && mimetype.IsURIList(req.Sample) {
		return decodeRAMList(ctx, s, req)
	}
	return Ignored, nil
}

func decodeRAMList(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	result := Unhandled
	for _, line := range splitLines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// RealPlayer stops reading at this marker.
		if line == "--stop--" {
			break
		}
		result = Success
		s.resolveEntry(ctx, req.Context, Entry{URI: s.resolveRef(req, line)})
		if ctx.Err() != nil {
			return Error, nil
		}
	}
	return result, nil
}
