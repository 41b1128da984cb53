package mimetype

import (
	"bytes"
	"compress/gzip"
	"io"
	"unicode/utf8"
)

const (
	gvpMagic        = "#.download.the.free.Google.Video.Player"
	gvpMagicSpaced  = "# download the free Google Video Player"
	plaSignature    = "iriver UMS PLA"
	rtspTextMinimum = len("RTSPtextRTSP://")
	maxInflated     = 1 << 20
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// FromData sniffs a leading sample of a resource. It returns Empty for an
// empty sample and Binary when nothing matched and the bytes are not text.
func FromData(data []byte) TypeID {
	if len(data) == 0 {
		return Empty
	}
	if IsGzip(data) {
		inner, err := Gunzip(data, maxInflated)
		if err != nil || len(inner) == 0 {
			return Binary
		}
		return FromData(inner)
	}
	switch {
	case IsPLA(data):
		return PLA
	case IsPLS(data):
		return PLS
	case IsASFReference(data):
		return ASF
	case IsASX(data):
		return ASX
	case IsQuickTime(data):
		return QTLink
	case IsM3U(data):
		return M3U
	case IsGVP(data):
		return GVP
	case IsDesktop(data):
		return Desktop
	case IsRSS(data):
		return RSS
	case IsAtom(data):
		return Atom
	case IsXSPF(data):
		return XSPF
	case IsSMIL(data):
		return SMIL
	case IsURIList(data):
		return URIList
	case IsText(data):
		return PlainText
	}
	return Binary
}

// TrimLeading drops a UTF-8 byte order mark and leading whitespace.
func TrimLeading(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.TrimLeft(data, " \t\r\n")
}

// IsGzip reports the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Gunzip inflates at most limit bytes. A truncated stream yields what could
// be inflated as long as that is not nothing.
func Gunzip(data []byte, limit int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, limit))
	if err != nil && len(out) == 0 {
		return nil, err
	}
	return out, nil
}

// IsPLS reports a "[playlist]" header.
func IsPLS(data []byte) bool {
	return hasPrefixFold(TrimLeading(data), "[playlist]")
}

// IsM3U reports an extended M3U header.
func IsM3U(data []byte) bool {
	return bytes.HasPrefix(TrimLeading(data), []byte("#EXTM3U"))
}

// IsHLS reports HTTP Live Streaming tags, which mark a stream manifest rather
// than a list of separate items.
func IsHLS(data []byte) bool {
	for _, tag := range []string{"#EXT-X-TARGETDURATION", "#EXT-X-STREAM-INF", "#EXT-X-MEDIA-SEQUENCE", "#EXT-X-MEDIA:"} {
		if bytes.Contains(data, []byte(tag)) {
			return true
		}
	}
	return false
}

// IsURIList reports whether the first non-blank text looks like
// "scheme://". RealMedia and ASF redirectors are plain lists of this kind.
func IsURIList(data []byte) bool {
	i := 0
	for i < len(data) && (data[i] == '\n' || data[i] == '\r' || data[i] == '\t' || data[i] == ' ') {
		i++
	}
	if i >= len(data) || !isAlpha(data[i]) {
		return false
	}
	i++
	for i < len(data) && (isAlpha(data[i]) || isDigit(data[i]) || data[i] == '+' || data[i] == '-' || data[i] == '.') {
		i++
	}
	return bytes.HasPrefix(data[i:], []byte("://"))
}

// IsASX reports an ASX document anywhere in the sample.
func IsASX(data []byte) bool {
	return containsFold(data, "<asx")
}

// IsASFReference reports the text and binary ASF redirector forms.
func IsASFReference(data []byte) bool {
	trimmed := TrimLeading(data)
	return hasPrefixFold(trimmed, "[reference]") ||
		bytes.HasPrefix(data, []byte("ASF ")) ||
		hasPrefixFold(trimmed, "[address]")
}

// IsASF reports any form of Windows Media redirector, including ASX.
func IsASF(data []byte) bool {
	return IsASFReference(data) || IsASX(data)
}

// IsQuickTime reports a QuickTime reference document.
func IsQuickTime(data []byte) bool {
	if len(data) <= rtspTextMinimum {
		return false
	}
	trimmed := TrimLeading(data)
	return hasPrefixFold(trimmed, "rtsptext") ||
		hasPrefixFold(trimmed, "smiltext") ||
		bytes.Contains(data, []byte("<?quicktime"))
}

// IsGVP reports a Google Video Pointer file.
func IsGVP(data []byte) bool {
	trimmed := TrimLeading(data)
	return bytes.HasPrefix(trimmed, []byte(gvpMagic)) || bytes.HasPrefix(trimmed, []byte(gvpMagicSpaced))
}

// IsPLA reports an iriver binary playlist header.
func IsPLA(data []byte) bool {
	return len(data) >= 4+len(plaSignature) && string(data[4:4+len(plaSignature)]) == plaSignature
}

// IsDesktop reports a freedesktop.org entry file.
func IsDesktop(data []byte) bool {
	return bytes.Contains(data, []byte("[Desktop Entry]"))
}

// IsRSS reports an RSS feed root.
func IsRSS(data []byte) bool {
	return containsFold(data, "<rss")
}

// IsAtom reports an Atom feed root.
func IsAtom(data []byte) bool {
	lower := bytes.ToLower(data)
	for _, needle := range []string{"<feed ", "<feed>", "<feed\n", "<feed\t", "<feed\r"} {
		if bytes.Contains(lower, []byte(needle)) {
			return true
		}
	}
	return false
}

// IsXSPF reports an XSPF playlist root.
func IsXSPF(data []byte) bool {
	return containsFold(data, "<playlist") && bytes.Contains(data, []byte("xspf.org/ns/0/"))
}

// IsSMIL reports a SMIL document root.
func IsSMIL(data []byte) bool {
	return containsFold(data, "<smil")
}

// IsText reports whether data reads as text: no NUL bytes and at most a
// handful of stray control characters.
func IsText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	control := 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' && r != '\f' {
			control++
		}
	}
	return control <= 2
}

func hasPrefixFold(data []byte, prefix string) bool {
	return len(data) >= len(prefix) && bytes.EqualFold(data[:len(prefix)], []byte(prefix))
}

func containsFold(data []byte, needle string) bool {
	return bytes.Contains(bytes.ToLower(data), bytes.ToLower([]byte(needle)))
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
