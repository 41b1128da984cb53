package plparser

import (
	"context"
)

func decodeXSPF(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	root, err := parseXML(data)
	if err != nil || root.name != "playlist" {
		return Error, nil
	}
	if base := root.attr("base"); base != "" {
		req.Base = s.resolveRef(req, base)
	}

	defer s.titledPlaylist(req.URI, root.childValue("title"), Metadata{
		MetaAuthor: root.childValue("creator"),
		MetaImage:  root.childValue("image"),
	})()

	for _, list := range root.childrenNamed("tracklist") {
		for _, track := range list.childrenNamed("track") {
			location := track.childValue("location")
			if location == "" {
				continue
			}
			s.emit(Entry{
				URI:   s.resolveRef(req, location),
				Title: track.childValue("title"),
				Metadata: Metadata{
					MetaAuthor:      track.childValue("creator"),
					MetaAlbum:       track.childValue("album"),
					MetaDuration:    track.childValue("duration"),
					MetaImage:       track.childValue("image"),
					MetaDescription: track.childValue("annotation"),
				},
			})
		}
	}
	return Success, nil
}
