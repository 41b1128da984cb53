package plparser

import (
	"context"
	"sort"

	"plparse/internal/disc"
	"plparse/internal/uri"
)

// decodeDirectory expands a directory into its children, sorted by name.
// A directory holding a video disc layout is the disc instead.
func decodeDirectory(ctx context.Context, s *Session, req Request) (Result, error) {
	if media, ok := s.discLayout(ctx, req.URI); ok {
		s.emit(Entry{URI: disc.MRL(media, req.URI), Title: uri.DisplayName(req.URI)})
		return Success, nil
	}

	children, err := s.parser.fetcher.ReadDir(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })

	child := ResolutionContext{Depth: req.Context.Depth, Fallback: req.Context.Fallback}
	for _, c := range children {
		if c.Name == "." || c.Name == ".." || c.Name == "" {
			continue
		}
		if ctx.Err() != nil {
			return Error, nil
		}
		target := uri.Join(req.URI, c.Name)
		if r, _ := s.dispatch(ctx, child, target); r != Success && r != Ignored {
			s.emit(Entry{URI: target})
		}
	}
	return Success, nil
}

// discLayout probes the marker files of the video disc layouts.
func (s *Session) discLayout(ctx context.Context, dir string) (disc.MediaType, bool) {
	for _, marker := range disc.LayoutMarkers() {
		info, err := s.parser.fetcher.Stat(ctx, uri.Join(dir, marker.Path))
		if err == nil && !info.IsDir {
			return marker.Media, true
		}
	}
	return disc.MediaUnknown, false
}
