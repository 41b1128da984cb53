package plparser

import (
	"bytes"
	"context"
	"strings"

	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

// decodeASF handles the Windows Media names. Real media is emitted as is;
// the text redirectors point at the actual stream.
func decodeASF(ctx context.Context, s *Session, req Request) (Result, error) {
	if req.Sample == nil || !mimetype.IsASF(req.Sample) {
		s.emit(Entry{URI: req.URI})
		return Success, nil
	}
	trimmed := mimetype.TrimLeading(req.Sample)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[Address]")):
		// NSC announcements are left to the player.
		return Unhandled, nil
	case bytes.HasPrefix(req.Sample, []byte("ASF ")):
		return decodeASFBinary(ctx, s, req)
	case mimetype.IsASFReference(req.Sample):
		return decodeASFReference(ctx, s, req)
	}
	return decodeASX(ctx, s, req)
}

func decodeASFBinary(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	if len(data) <= 4 {
		return Error, nil
	}
	ref := strings.TrimSpace(strings.TrimRight(string(data[4:]), "\x00"))
	if !strings.HasPrefix(ref, "http") {
		return Unhandled, nil
	}
	s.emit(Entry{URI: mmsh(ref)})
	return Success, nil
}

func decodeASFReference(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	ref := keyValues(splitLines(string(data)), "")["ref1"]
	if ref == "" {
		return decodeASX(ctx, s, req)
	}
	// Ref2 is only ever a fallback for Ref1.
	s.emit(Entry{URI: mmsh(ref)})
	return Success, nil
}

// mmsh rewrites an http reference to the Windows Media streaming scheme.
func mmsh(ref string) string {
	return uri.RewriteScheme(ref, "http", "mmsh")
}
