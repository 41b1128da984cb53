package plparser

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"plparse/internal/logging"
	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

// liveSchemes are transports the resolver never reads from. URIs using them
// are handed to the caller untouched.
var liveSchemes = map[string]bool{
	"mms": true, "mmsh": true, "mmst": true, "mmsu": true,
	"rtsp": true, "rtspt": true, "rtspu": true,
	"rtmp": true, "rtmpt": true, "rtmps": true,
	"icy": true, "icyx": true,
	"dvd": true, "vcd": true, "cdda": true, "dvb": true,
}

const maxInflatedBytes = 64 << 20

// Session is the state of one top-level resolution. Decoders receive it to
// emit events and resolve the references they find.
type Session struct {
	parser   *Parser
	cfg      Config
	recurse  bool
	listener Listener
	logger   *slog.Logger
	entries  int
}

// resolve classifies and expands target, applying the caller's fallback
// policy to whatever the decoders could not handle.
func (s *Session) resolve(ctx context.Context, rc ResolutionContext, target string) Result {
	target = s.absolute(rc, target)
	result, out := s.dispatch(ctx, rc, target)
	if result == Success || result == Ignored || !rc.Fallback {
		return result
	}
	// A playlist grammar that parsed but found nothing usable keeps its
	// result; only unreadable input is rescued.
	if out.decoded && out.class == Definite && !out.readFailed {
		return result
	}
	s.logger.Debug("emitting unresolved uri", logging.URI(target), logging.Outcome(result))
	s.emit(Entry{URI: target})
	return Success
}

// resolveEntry resolves a reference found inside a playlist. e carries what
// the playlist knew about it and is emitted in place of the reference when
// the target turns out to be opaque media.
func (s *Session) resolveEntry(ctx context.Context, rc ResolutionContext, e Entry) Result {
	if e.URI == "" {
		return Error
	}
	if s.passThrough(e.URI) {
		s.emit(e)
		return Success
	}
	child := ResolutionContext{Depth: rc.Depth, Fallback: rc.Fallback}
	result, _ := s.dispatch(ctx, child, s.absolute(child, e.URI))
	switch result {
	case Success, Ignored:
		return result
	case Unhandled:
		s.emit(e)
		return Success
	default:
		if rc.Fallback {
			s.emit(e)
			return Success
		}
		return Error
	}
}

type dispatchOutcome struct {
	decoded    bool
	class      Behavior
	readFailed bool
}

// dispatch runs the engine steps up to and including the decoder call.
func (s *Session) dispatch(ctx context.Context, rc ResolutionContext, target string) (Result, dispatchOutcome) {
	if ctx.Err() != nil {
		return Error, dispatchOutcome{}
	}
	if s.passThrough(target) {
		s.emit(Entry{URI: target})
		return Success, dispatchOutcome{}
	}
	if rc.Depth > s.cfg.MaxDepth {
		s.logger.Debug("maximum depth exceeded",
			logging.URI(target),
			logging.Depth(rc.Depth),
		)
		return Error, dispatchOutcome{}
	}

	t, sample, err := s.classify(ctx, target, rc.Depth)
	if err != nil {
		s.logger.Debug("sample unavailable", logging.URI(target), logging.Error(err))
	}
	if s.ignoredType(t) {
		s.logger.Debug("ignored type", logging.URI(target), logging.MimeType(t))
		return Ignored, dispatchOutcome{}
	}
	if !s.recurse && rc.Depth > 0 {
		return Unhandled, dispatchOutcome{}
	}
	if t == mimetype.Empty {
		return Success, dispatchOutcome{}
	}

	entry, ok := s.parser.registry.lookup(t)
	if !ok {
		s.logger.Debug("no decoder", logging.URI(target), logging.MimeType(t))
		return Unhandled, dispatchOutcome{}
	}
	switch {
	case entry.Class == NeverRecurse:
		return Ignored, dispatchOutcome{}
	case entry.Unsafe && s.cfg.DisableUnsafe:
		s.logger.Debug("unsafe decoder disabled", logging.URI(target), logging.MimeType(t))
		return Ignored, dispatchOutcome{}
	}
	if entry.Class == Ambiguous && sample == nil {
		sample, err = s.sample(ctx, target)
		if err != nil {
			s.logger.Debug("sample unavailable", logging.URI(target), logging.Error(err))
		}
	}

	s.logger.Debug("dispatching",
		logging.URI(target),
		logging.MimeType(t),
		logging.String("class", entry.Class.String()),
		logging.Depth(rc.Depth),
	)
	req := Request{
		URI:    target,
		Base:   rc.BaseURI,
		Type:   t,
		Sample: sample,
		Context: ResolutionContext{
			Depth:    rc.Depth + 1,
			Fallback: rc.Fallback,
		},
	}
	out := dispatchOutcome{decoded: true, class: entry.Class}
	result, err := entry.Decoder.Decode(ctx, s, req)
	s.parser.observer.DecoderFinished(t, result)
	if err != nil {
		out.readFailed = true
		logging.WarnWithContext(s.logger, "decoder failed", "decode_failed",
			logging.URI(target),
			logging.MimeType(t),
			logging.Error(err),
			logging.Hint("check that the playlist is readable"),
			logging.Impact("playlist contents were skipped"),
		)
		if result == Success {
			result = Error
		}
	}
	return result, out
}

func (s *Session) absolute(rc ResolutionContext, target string) string {
	target = strings.TrimSpace(target)
	if rc.BaseURI != "" && !uri.IsAbsolute(target) {
		target = uri.Resolve(dirURI(rc.BaseURI), target)
	}
	return uri.Normalize(target)
}

func (s *Session) passThrough(target string) bool {
	scheme := uri.Scheme(target)
	if scheme == "" {
		return false
	}
	return liveSchemes[scheme] || slices.Contains(s.cfg.IgnoredSchemes, scheme)
}

func (s *Session) ignoredType(t mimetype.TypeID) bool {
	for _, pattern := range s.cfg.IgnoredMimeTypes {
		if t.Matches(pattern) {
			return true
		}
	}
	return false
}

// classify returns the dispatch type of target and the sample it read, if
// any. A sample error is returned alongside the name-derived type.
func (s *Session) classify(ctx context.Context, target string, depth int) (mimetype.TypeID, []byte, error) {
	if uri.IsLocal(target) {
		if info, err := s.parser.fetcher.Stat(ctx, target); err == nil {
			switch {
			case info.IsDir:
				return mimetype.Directory, nil, nil
			case info.IsBlockDevice:
				return mimetype.BlockDevice, nil, nil
			case info.Size == 0:
				return mimetype.Empty, nil, nil
			}
		}
	}

	name := mimetype.FromName(target)
	if name == mimetype.Podcast {
		return name, nil, nil
	}
	if !s.cfg.Force && !name.IsUnknown() && !mimetype.IsWeak(name, depth == 0) {
		return name, nil, nil
	}

	sample, err := s.sample(ctx, target)
	if err != nil {
		return name, nil, err
	}
	sniffed := mimetype.FromData(sample)
	if specific(sniffed) || name.IsUnknown() {
		return sniffed, sample, nil
	}
	return name, sample, nil
}

// specific reports whether a sniffed type says more than "some bytes".
func specific(t mimetype.TypeID) bool {
	switch t {
	case mimetype.Unknown, mimetype.Binary, mimetype.PlainText:
		return false
	}
	return true
}

func (s *Session) sample(ctx context.Context, target string) ([]byte, error) {
	data, err := s.parser.fetcher.Sample(ctx, fetchURI(target), s.cfg.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", target, err)
	}
	return data, nil
}

// readAll returns the full, inflated contents of target.
func (s *Session) readAll(ctx context.Context, target string) ([]byte, error) {
	data, err := s.parser.fetcher.ReadAll(ctx, fetchURI(target))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if mimetype.IsGzip(data) {
		inflated, err := mimetype.Gunzip(data, maxInflatedBytes)
		if err != nil {
			return nil, fmt.Errorf("inflate %s: %w", target, err)
		}
		data = inflated
	}
	return data, nil
}

// fetchURI maps the podcast schemes onto the transport that serves them.
func fetchURI(target string) string {
	switch uri.Scheme(target) {
	case "itpc", "pcast", "feed", "itms":
		return uri.RewriteScheme(target, uri.Scheme(target)+"://", "http://")
	}
	return target
}

// resolveRef turns a reference found in req's document into an absolute URI.
func (s *Session) resolveRef(req Request, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if req.Base != "" {
		return uri.Normalize(uri.Resolve(dirURI(req.Base), ref))
	}
	return uri.Normalize(uri.Resolve(req.URI, ref))
}

// dirURI marks base as a directory so references join below it.
func dirURI(base string) string {
	base = uri.Normalize(base)
	if base == "" || strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

// emit delivers an entry after cleaning its text fields.
func (s *Session) emit(e Entry) {
	if e.URI == "" {
		return
	}
	e.Title = cleanText(e.Title)
	e.Genre = cleanText(e.Genre)
	e.Metadata = cleanMetadata(e.Metadata)
	s.entries++
	s.parser.observer.EntryEmitted()
	s.listener.EntryParsed(e)
}

// playlist emits a start bracket and returns the function emitting the
// matching end. Decoders defer the returned function so the end is sent on
// every path.
func (s *Session) playlist(target, title string, md Metadata) func() {
	b := Bracket{Kind: PlaylistStart, URI: target, Title: cleanText(title), Metadata: cleanMetadata(md)}
	s.listener.PlaylistStarted(b)
	return func() {
		s.listener.PlaylistEnded(Bracket{Kind: PlaylistEnd, URI: b.URI, Title: b.Title})
	}
}

// titledPlaylist brackets the output only when title is displayable.
func (s *Session) titledPlaylist(target, title string, md Metadata) func() {
	if cleanText(title) == "" {
		return func() {}
	}
	return s.playlist(target, title, md)
}

// successIf is the result of a playlist whose children were resolved one by
// one: Success when at least one of them succeeded.
func successIf(anySuccess bool) Result {
	if anySuccess {
		return Success
	}
	return Error
}
