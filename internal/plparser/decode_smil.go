package plparser

import (
	"context"
	"strings"
)

func decodeSMIL(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	return decodeSMILData(ctx, s, req, data), nil
}

// decodeSMILData parses a SMIL presentation. QuickTime "SMILtext" files
// reach it with their prefix removed.
func decodeSMILData(_ context.Context, s *Session, req Request, data []byte) Result {
	root, err := parseXML(data)
	if err != nil || root.name != "smil" {
		return Error
	}

	title := ""
	for _, meta := range root.child("head").childrenNamed("meta") {
		switch strings.ToLower(meta.attr("name")) {
		case "title":
			if title == "" {
				title = meta.attr("content")
			}
		case "base":
			if base := meta.attr("content"); base != "" {
				req.Base = s.resolveRef(req, base)
			}
		}
	}

	found := false
	for _, body := range root.childrenNamed("body") {
		if smilMedia(s, req, body, title) {
			found = true
		}
	}
	return successIf(found)
}

// smilMedia emits every media object below parent, descending through the
// timing containers (seq, par, switch, ...).
func smilMedia(s *Session, req Request, parent *xmlNode, title string) bool {
	found := false
	for _, node := range parent.children {
		switch node.name {
		case "video", "audio", "ref":
			src := node.attr("src")
			if src == "" {
				continue
			}
			entryTitle := node.attr("title")
			if entryTitle == "" {
				entryTitle = title
			}
			s.emit(Entry{
				URI:   s.resolveRef(req, src),
				Title: entryTitle,
				Metadata: Metadata{
					MetaAuthor:    node.attr("author"),
					MetaDuration:  node.attr("dur"),
					MetaStartTime: node.attr("clip-begin"),
					MetaAbstract:  node.attr("abstract"),
					MetaCopyright: node.attr("copyright"),
				},
			})
			found = true
		default:
			if smilMedia(s, req, node, title) {
				found = true
			}
		}
	}
	return found
}
