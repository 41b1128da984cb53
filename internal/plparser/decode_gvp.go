package plparser

import (
	"context"
	"strings"

	"plparse/internal/mimetype"
)

const gvpVersion = "1.1"

// decodeGVP reads a Google Video Pointer: a header line followed by
// "key:value" pairs.
func decodeGVP(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	if !mimetype.IsGVP(data) {
		return Unhandled, nil
	}

	fields := make(map[string]string)
	for _, line := range splitLines(string(data)) {
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(value)
		}
	}

	if fields["gvp_version"] != gvpVersion {
		return Unhandled, nil
	}
	target := fields["url"]
	if target == "" {
		return Error, nil
	}
	s.emit(Entry{
		URI:   target,
		Title: fields["title"],
		Metadata: Metadata{
			MetaDescription: fields["description"],
			MetaDuration:    fields["duration"],
		},
	})
	return Success, nil
}
