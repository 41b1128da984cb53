package plparser

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

// iriver PLA layout: 512 byte records, the first being the header.
const (
	plaRecordSize  = 512
	plaTitleOffset = 32
	plaPathOffset  = 2
	plaPathSize    = 500
)

// decodePLA reads an iriver binary playlist.
func decodePLA(ctx context.Context, s *Session, req Request) (Result, error) {
	data, err := s.readAll(ctx, req.URI)
	if err != nil {
		return Error, err
	}
	if len(data) < plaRecordSize {
		return Success, nil
	}
	if !mimetype.IsPLA(data) {
		return Error, nil
	}

	count := int(int32(binary.BigEndian.Uint32(data[:4])))
	title := cString(data[plaTitleOffset:plaRecordSize])
	defer s.titledPlaylist(req.URI, title, nil)()

	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	for i := 1; i <= count; i++ {
		start := i * plaRecordSize
		if start+plaRecordSize > len(data) {
			break
		}
		raw := utf16CString(data[start+plaPathOffset : start+plaPathOffset+plaPathSize])
		if len(raw) == 0 {
			continue
		}
		path, err := decoder.Bytes(raw)
		if err != nil {
			return Error, nil
		}
		p := strings.ReplaceAll(string(path), `\`, "/")
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		s.emit(Entry{URI: "file://" + uri.EscapePath(p)})
	}
	return Success, nil
}

// cString returns data up to the first NUL byte.
func cString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

// utf16CString cuts a UTF-16 string at its first NUL code unit.
func utf16CString(data []byte) []byte {
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return data[:i]
		}
	}
	return data[:len(data)&^1]
}
