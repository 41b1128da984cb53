package plparser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// cleanText returns s as valid UTF-8 or "" when it cannot be displayed.
// Bytes that are not UTF-8 are read as ISO-8859-1, which old playlists use
// for titles. Anything still holding control characters is treated as
// binary garbage.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
		if err != nil {
			return ""
		}
		s = decoded
	}
	for _, r := range s {
		if r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return ""
		}
	}
	return s
}

// cleanMetadata validates every value and drops the empty ones. It returns
// nil when nothing is left.
func cleanMetadata(md Metadata) Metadata {
	if len(md) == 0 {
		return nil
	}
	out := make(Metadata, len(md))
	for k, v := range md {
		if v = cleanText(v); v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
