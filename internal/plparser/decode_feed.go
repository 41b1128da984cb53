package plparser

import (
	"context"
	"strings"
)

// decodeFeed handles RSS 2.0 and Atom 1.0 podcast feeds. Every feed is
// bracketed, titled or not, so callers can tell which entries belong to it.
func decodeFeed(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	root, err := parseXML(data)
	if err != nil {
		return Error, nil
	}
	playlistURI := req.URI
	req.URI = fetchURI(req.URI)

	switch root.name {
	case "rss":
		channel := root.child("channel")
		if channel == nil {
			return Error, nil
		}
		decodeRSS(s, req, playlistURI, channel)
	case "feed":
		decodeAtom(s, req, playlistURI, root)
	default:
		return Error, nil
	}
	return Success, nil
}

func decodeRSS(s *Session, req Request, playlistURI string, channel *xmlNode) {
	author := channel.childValue("author")
	image := rssImage(channel)
	genre := channel.childValue("category")
	if genre == "" {
		genre = channel.child("category").attr("text")
	}

	defer s.playlist(playlistURI, channel.childValue("title"), Metadata{
		MetaAuthor:      author,
		MetaImage:       image,
		MetaDescription: firstNonEmpty(channel.childValue("description"), channel.childValue("summary")),
		MetaCopyright:   channel.childValue("copyright"),
		MetaLanguage:    channel.childValue("language"),
	})()

	for _, item := range channel.childrenNamed("item") {
		enclosure := item.child("enclosure")
		href := enclosure.attr("url")
		if href == "" {
			continue
		}
		s.emit(Entry{
			URI:   s.resolveRef(req, href),
			Title: item.childValue("title"),
			Genre: genre,
			Metadata: Metadata{
				MetaAuthor:      firstNonEmpty(item.childValue("author"), author),
				MetaPubDate:     item.childValue("pubdate"),
				MetaDescription: firstNonEmpty(item.childValue("description"), item.childValue("summary")),
				MetaDuration:    item.childValue("duration"),
				MetaID:          item.childValue("guid"),
				MetaFileSize:    enclosure.attr("length"),
				MetaContentType: enclosure.attr("type"),
				MetaImage:       firstNonEmpty(rssImage(item), image),
			},
		})
	}
}

// rssImage reads either <image><url> or the iTunes <image href>.
func rssImage(n *xmlNode) string {
	for _, img := range n.childrenNamed("image") {
		if href := img.attr("href"); href != "" {
			return href
		}
		if u := img.childValue("url"); u != "" {
			return u
		}
	}
	return ""
}

func decodeAtom(s *Session, req Request, playlistURI string, feed *xmlNode) {
	author := feed.child("author").childValue("name")

	defer s.playlist(playlistURI, feed.childValue("title"), Metadata{
		MetaAuthor:      author,
		MetaImage:       firstNonEmpty(feed.childValue("logo"), feed.childValue("icon")),
		MetaDescription: feed.childValue("subtitle"),
		MetaCopyright:   feed.childValue("rights"),
	})()

	for _, entry := range feed.childrenNamed("entry") {
		link := atomEnclosure(entry)
		if link == nil {
			continue
		}
		s.emit(Entry{
			URI:   s.resolveRef(req, link.attr("href")),
			Title: entry.childValue("title"),
			Metadata: Metadata{
				MetaAuthor:      firstNonEmpty(entry.child("author").childValue("name"), author),
				MetaPubDate:     firstNonEmpty(entry.childValue("published"), entry.childValue("updated")),
				MetaDescription: firstNonEmpty(entry.childValue("summary"), entry.childValue("content")),
				MetaID:          entry.childValue("id"),
				MetaFileSize:    link.attr("length"),
				MetaContentType: link.attr("type"),
			},
		})
	}
}

func atomEnclosure(entry *xmlNode) *xmlNode {
	for _, link := range entry.childrenNamed("link") {
		if strings.EqualFold(link.attr("rel"), "enclosure") && link.attr("href") != "" {
			return link
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
