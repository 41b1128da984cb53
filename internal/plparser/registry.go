package plparser

import (
	"context"

	"plparse/internal/mimetype"
)

// Behavior is how the engine treats a classified type.
type Behavior int

const (
	// Definite types are playlist grammars; their decoder always runs.
	Definite Behavior = iota
	// Ambiguous types may be media or a small redirector; the decoder
	// sniffs the bytes and decides.
	Ambiguous
	// NeverRecurse types are opaque and resolve to Ignored unread.
	NeverRecurse
)

// String implements fmt.Stringer.
func (b Behavior) String() string {
	switch b {
	case Definite:
		return "definite"
	case Ambiguous:
		return "ambiguous"
	case NeverRecurse:
		return "never-recurse"
	default:
		return "unknown"
	}
}

// Request is what a decoder gets to work on.
type Request struct {
	// URI is the normalized location of the document.
	URI string
	// Base, when set, replaces the document location for relative references.
	Base string
	Type mimetype.TypeID
	// Sample holds the leading bytes if classification already read them.
	Sample  []byte
	Context ResolutionContext
}

// Decoder parses one playlist grammar. Entries and brackets are emitted
// through the session as a side effect. A non-nil error reports an internal
// failure such as unreadable bytes, never a malformed document.
type Decoder interface {
	Decode(ctx context.Context, s *Session, req Request) (Result, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, s *Session, req Request) (Result, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, s *Session, req Request) (Result, error) {
	return f(ctx, s, req)
}

// DispatchEntry binds a type to its decoder and behaviour.
type DispatchEntry struct {
	Type    mimetype.TypeID
	Class   Behavior
	Decoder Decoder
	// Unsafe decoders touch local devices, images or directories and are
	// skipped when Config.DisableUnsafe is set.
	Unsafe bool
	// Identify recognizes the grammar from a sample, for CanParse.
	Identify func([]byte) bool
}

type registry struct {
	byType   map[mimetype.TypeID]DispatchEntry
	byFamily map[string]DispatchEntry
	ordered  []DispatchEntry
}

func newRegistry() *registry {
	r := &registry{
		byType:   make(map[mimetype.TypeID]DispatchEntry),
		byFamily: make(map[string]DispatchEntry),
	}

	definite := func(d DecoderFunc, identify func([]byte) bool, types ...mimetype.TypeID) {
		for _, t := range types {
			r.add(DispatchEntry{Type: t, Class: Definite, Decoder: d, Identify: identify})
		}
	}
	local := func(d DecoderFunc, identify func([]byte) bool, types ...mimetype.TypeID) {
		for _, t := range types {
			r.add(DispatchEntry{Type: t, Class: Definite, Decoder: d, Unsafe: true, Identify: identify})
		}
	}
	ambiguous := func(d DecoderFunc, identify func([]byte) bool, types ...mimetype.TypeID) {
		for _, t := range types {
			r.add(DispatchEntry{Type: t, Class: Ambiguous, Decoder: d, Identify: identify})
		}
	}
	never := func(types ...mimetype.TypeID) {
		for _, t := range types {
			r.add(DispatchEntry{Type: t, Class: NeverRecurse})
		}
	}

	definite(decodeM3U, mimetype.IsM3U, mimetype.M3U, mimetype.M3UAlt, mimetype.M3UApple, mimetype.M3UPlaylist)
	definite(decodePLS, mimetype.IsPLS, mimetype.PLS)
	definite(decodeASX, mimetype.IsASX, mimetype.WVX, mimetype.WAX)
	definite(decodeSMIL, mimetype.IsSMIL, mimetype.SMIL, mimetype.SMILAlt)
	definite(decodeXSPF, mimetype.IsXSPF, mimetype.XSPF)
	definite(decodeRAM, mimetype.IsURIList, mimetype.URIList)
	definite(decodeGVP, mimetype.IsGVP, mimetype.GVP, mimetype.GVPAlt)
	definite(decodePLA, mimetype.IsPLA, mimetype.PLA)
	definite(decodeFeed, mimetype.IsRSS, mimetype.RSS)
	definite(decodeFeed, mimetype.IsAtom, mimetype.Atom)
	definite(decodeFeed, nil, mimetype.Podcast)

	local(decodeDesktop, mimetype.IsDesktop, mimetype.Desktop, mimetype.GnomeAppInfo)
	local(decodeImage, nil, mimetype.ISO, mimetype.IMG)
	local(decodeCue, nil, mimetype.Cue)
	local(decodeDirectory, nil, mimetype.Directory)
	local(decodeBlockDevice, nil, mimetype.BlockDevice)

	ambiguous(decodeRAM, nil,
		mimetype.RAM, mimetype.RealAudio, mimetype.RealAudioAlt, mimetype.RealAudioVnd,
		mimetype.RealAudioX, mimetype.RealPlugin, mimetype.RealMedia)
	ambiguous(decodeASX, mimetype.IsASX, mimetype.ASX)
	ambiguous(decodeASF, mimetype.IsASFReference, mimetype.ASF, mimetype.WMV)
	ambiguous(decodeQuickTime, mimetype.IsQuickTime, mimetype.QuickTime, mimetype.QTLink, mimetype.QTPlayer)

	never(mimetype.PlainText, mimetype.Zip, mimetype.Rar, mimetype.Trash)
	r.byFamily["image"] = DispatchEntry{Type: "image/*", Class: NeverRecurse}
	r.byFamily["text"] = DispatchEntry{Type: "text/*", Class: Ambiguous, Decoder: DecoderFunc(decodeTextFamily)}
	return r
}

func (r *registry) add(e DispatchEntry) {
	r.byType[e.Type] = e
	r.ordered = append(r.ordered, e)
}

// lookup finds the entry for t, trying the exact type before its family.
func (r *registry) lookup(t mimetype.TypeID) (DispatchEntry, bool) {
	if e, ok := r.byType[t]; ok {
		return e, true
	}
	e, ok := r.byFamily[t.Family()]
	return e, ok
}

// identify reports whether any playlist grammar recognizes data.
func (r *registry) identify(data []byte) bool {
	for _, e := range r.ordered {
		if e.Class == NeverRecurse || e.Identify == nil {
			continue
		}
		if e.Identify(data) {
			return true
		}
	}
	return false
}
