package plparser

import (
	"context"
	"strings"

	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

func decodeASX(ctx context.Context, s *Session, req Request) (Result, error) {
	if req.Sample != nil && mimetype.IsURIList(req.Sample) {
		return decodeRAMList(ctx, s, req)
	}
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	root, err := parseXML(data)
	if err != nil || root.name != "asx" {
		return Error, nil
	}
	return asxEntries(ctx, s, req, root), nil
}

// asxEntries walks the children of an <asx> or <repeat> element.
func asxEntries(ctx context.Context, s *Session, req Request, parent *xmlNode) Result {
	title := parent.childValue("title")
	defer s.titledPlaylist(req.URI, title, nil)()

	handled := false
	for _, node := range parent.children {
		if ctx.Err() != nil {
			return Error
		}
		var r Result
		switch node.name {
		case "base":
			if href := node.attr("href"); href != "" {
				req.Base = s.resolveRef(req, href)
			}
			continue
		case "entry":
			r = asxEntry(ctx, s, req, node, title)
		case "entryref":
			href := node.attr("href")
			if href == "" {
				continue
			}
			r = s.resolveEntry(ctx, req.Context, Entry{URI: s.resolveRef(req, href)})
		case "repeat":
			r = asxEntries(ctx, s, req, node)
		default:
			continue
		}
		if r == Success || r == Ignored {
			handled = true
		}
	}
	return successIf(handled)
}

func asxEntry(ctx context.Context, s *Session, req Request, node *xmlNode, playlistTitle string) Result {
	var refs []string
	md := Metadata{}
	title := ""
	for _, c := range node.children {
		switch c.name {
		case "ref":
			if href := c.attr("href"); href != "" {
				refs = append(refs, href)
			}
		case "title":
			if title == "" {
				title = c.value()
			}
		case "author":
			md[MetaAuthor] = c.value()
		case "copyright":
			md[MetaCopyright] = c.value()
		case "abstract":
			md[MetaAbstract] = c.value()
		case "moreinfo":
			md[MetaMoreInfo] = c.attr("href")
		case "duration":
			md[MetaDuration] = c.attr("value")
		case "starttime":
			md[MetaStartTime] = c.attr("value")
		case "param":
			if strings.EqualFold(c.attr("name"), "showwhilebuffering") && strings.EqualFold(c.attr("value"), "true") {
				return Ignored
			}
		}
	}
	if len(refs) == 0 {
		return Error
	}
	if title == "" {
		title = playlistTitle
	}
	target := s.resolveRef(req, preferredRef(refs, s.cfg.PreferredSchemes))
	return s.resolveEntry(ctx, req.Context, Entry{URI: target, Title: title, Metadata: md})
}

// preferredRef returns the first ref using the most preferred scheme, or the
// first ref when none matches.
func preferredRef(refs, preferred []string) string {
	for _, scheme := range preferred {
		for _, ref := range refs {
			if uri.Scheme(ref) == scheme {
				return ref
			}
		}
	}
	return refs[0]
}
