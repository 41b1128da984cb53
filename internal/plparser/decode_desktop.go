package plparser

import (
	"context"

	"plparse/internal/mimetype"
)

// decodeDesktop follows freedesktop.org link and device entries.
func decodeDesktop(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	keys := keyValues(splitLines(string(data)), "Desktop Entry")
	kind := keys["type"]
	if kind != "Link" && kind != "FSDevice" {
		return Error, nil
	}
	target := keys["url"]
	if target == "" {
		return Error, nil
	}

	e := Entry{URI: s.resolveRef(req, target), Title: keys["name"]}
	if kind == "FSDevice" || s.playlistName(e.URI) {
		s.resolveEntry(ctx, req.Context, e)
		return Success, nil
	}
	s.emit(e)
	return Success, nil
}

// playlistName reports whether the name alone says target is worth
// expanding.
func (s *Session) playlistName(target string) bool {
	entry, ok := s.parser.registry.lookup(mimetype.FromName(target))
	return ok && entry.Class != NeverRecurse
}
