package plparser

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"plparse/internal/disc"
	"plparse/internal/fetch"
	"plparse/internal/logging"
	"plparse/internal/mimetype"
	"plparse/internal/uri"
)

// DiscDetector identifies optical media behind block devices and images.
// disc.Detector is the production implementation.
type DiscDetector interface {
	DetectDevice(ctx context.Context, device string) (disc.Media, error)
	DetectImage(ctx context.Context, path string) (disc.Media, error)
}

// Observer receives resolution statistics. Implementations must be safe for
// concurrent use.
type Observer interface {
	ResolveFinished(result Result, elapsed time.Duration)
	DecoderFinished(t mimetype.TypeID, result Result)
	EntryEmitted()
}

type nopObserver struct{}

func (nopObserver) ResolveFinished(Result, time.Duration)     {}
func (nopObserver) DecoderFinished(mimetype.TypeID, Result) {}
func (nopObserver) EntryEmitted()                           {}

// Parser resolves playlist URIs. It is safe for concurrent use; every Resolve
// call works on its own session.
type Parser struct {
	fetcher  fetch.Fetcher
	logger   *slog.Logger
	disc     DiscDetector
	observer Observer
	registry *registry

	mu  sync.RWMutex
	cfg Config
}

// Option configures a Parser.
type Option func(*Parser)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(p *Parser) { p.cfg = cfg.clone() }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDiscDetector replaces the disc.Detector used for devices and images.
func WithDiscDetector(d DiscDetector) Option {
	return func(p *Parser) {
		if d != nil {
			p.disc = d
		}
	}
}

// WithObserver registers a statistics sink.
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		if o != nil {
			p.observer = o
		}
	}
}

// New returns a Parser reading through fetcher.
func New(fetcher fetch.Fetcher, opts ...Option) *Parser {
	p := &Parser{
		fetcher:  fetcher,
		logger:   logging.NewNop(),
		observer: nopObserver{},
		registry: newRegistry(),
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cfg = p.cfg.withDefaults()
	p.logger = logging.NewComponentLogger(p.logger, "plparser")
	if p.disc == nil {
		p.disc = disc.NewDetector(p.logger)
	}
	return p
}

// Config returns a copy of the current settings.
func (p *Parser) Config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.clone()
}

// AddIgnoredScheme makes URIs with scheme pass through as plain entries.
func (p *Parser) AddIgnoredScheme(scheme string) {
	scheme = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(scheme)), "://")
	if scheme == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.cfg.IgnoredSchemes, scheme) {
		p.cfg.IgnoredSchemes = append(p.cfg.IgnoredSchemes, scheme)
	}
}

// AddIgnoredMimeType makes resources of the given type, family wildcard
// ("audio/*") or supertype ("audio") resolve to Ignored.
func (p *Parser) AddIgnoredMimeType(pattern string) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.cfg.IgnoredMimeTypes, pattern) {
		p.cfg.IgnoredMimeTypes = append(p.cfg.IgnoredMimeTypes, pattern)
	}
}

// ResolveOptions are the per-call switches of Resolve.
type ResolveOptions struct {
	// Base resolves relative references instead of the playlist location.
	Base string
	// Fallback emits references that cannot be expanded as plain entries.
	Fallback bool
	// Shallow expands only the top-level document.
	Shallow bool
}

// Resolve expands target and reports what it finds to listener. Events are
// delivered on the calling goroutine before Resolve returns. The context
// carries an optional run identifier (logging.WithRunID); one is generated
// otherwise.
func (p *Parser) Resolve(ctx context.Context, target string, opts ResolveOptions, listener Listener) Result {
	if listener == nil {
		listener = ListenerFuncs{}
	}
	if _, ok := logging.RunIDFromContext(ctx); !ok {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}

	start := time.Now()
	s := p.newSession(ctx, listener, opts)
	rc := ResolutionContext{Fallback: opts.Fallback, BaseURI: opts.Base}
	result := s.resolve(ctx, rc, target)
	elapsed := time.Since(start)

	s.logger.Debug("resolution finished",
		logging.URI(target),
		logging.Outcome(result),
		logging.Int("entries", s.entries),
		logging.Duration("elapsed", elapsed),
	)
	p.observer.ResolveFinished(result, elapsed)
	return result
}

// Events returns the resolution of target as a lazy sequence. Every range
// over it runs a fresh resolution; breaking out of the loop cancels the
// remaining work.
func (p *Parser) Events(ctx context.Context, target string, opts ResolveOptions) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stopped := false
		emit := func(ev Event) {
			if stopped {
				return
			}
			if !yield(ev) {
				stopped = true
				cancel()
			}
		}
		p.Resolve(ctx, target, opts, ListenerFuncs{
			Entry: func(e Entry) { emit(entryEvent(e)) },
			Start: func(b Bracket) { emit(bracketEvent(b)) },
			End:   func(b Bracket) { emit(bracketEvent(b)) },
		})
	}
}

// Classify returns the type Resolve would dispatch target on.
func (p *Parser) Classify(ctx context.Context, target string) (mimetype.TypeID, error) {
	s := p.newSession(ctx, ListenerFuncs{}, ResolveOptions{})
	t, _, err := s.classify(ctx, uri.Normalize(target), 0)
	return t, err
}

// CanParse reports whether a sample looks like a playlist document.
func (p *Parser) CanParse(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if mimetype.IsGzip(data) {
		inner, err := mimetype.Gunzip(data, int64(p.Config().SampleSize))
		if err != nil {
			return false
		}
		data = inner
	}
	return p.registry.identify(data)
}

// Behavior returns how t would be dispatched. The second result is false for
// types with no entry, which resolve to Unhandled.
func (p *Parser) Behavior(t mimetype.TypeID) (Behavior, bool) {
	e, ok := p.registry.lookup(t)
	return e.Class, ok
}

func (p *Parser) newSession(ctx context.Context, listener Listener, opts ResolveOptions) *Session {
	cfg := p.Config()
	return &Session{
		parser:   p,
		cfg:      cfg,
		recurse:  cfg.Recurse && !opts.Shallow,
		listener: listener,
		logger:   logging.WithContext(ctx, p.logger),
	}
}
