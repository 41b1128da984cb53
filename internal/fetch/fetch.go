// Package fetch reads playlist bytes from wherever a URI points.
//
// The resolver never opens files or sockets itself. It asks a Fetcher for a
// stat, a bounded sample, the full contents or a directory listing, and the
// Router picks the transport by URI scheme.
package fetch

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a missing resource.
	ErrNotFound = errors.New("resource not found")
	// ErrUnsupportedScheme reports a URI no registered transport can read.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
	// ErrTooLarge reports a resource above the configured read limit.
	ErrTooLarge = errors.New("resource exceeds read limit")
	// ErrNotDirectory reports a listing request for something that is not one.
	ErrNotDirectory = errors.New("not a directory")
)

// Info describes a resource without reading it.
type Info struct {
	Size          int64
	IsDir         bool
	IsBlockDevice bool
	ModTime       time.Time
	// ContentType is the transport's own type hint, if any.
	ContentType string
}

// DirEntry is one child of a listed directory.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Fetcher abstracts local and remote reads.
type Fetcher interface {
	Stat(ctx context.Context, uri string) (Info, error)
	// Sample returns at most limit leading bytes.
	Sample(ctx context.Context, uri string, limit int) ([]byte, error)
	ReadAll(ctx context.Context, uri string) ([]byte, error)
	ReadDir(ctx context.Context, uri string) ([]DirEntry, error)
}

// Options configures the default transports.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 16 << 20
	defaultUserAgent = "plparse"
)

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

// NewDefault returns a Router serving file, http and https URIs.
func NewDefault(opts Options) *Router {
	opts = opts.withDefaults()
	local := NewLocal(opts.MaxBytes)
	remote := NewHTTP(opts)
	router := NewRouter()
	router.Register("file", local)
	router.Register("", local)
	router.Register("http", remote)
	router.Register("https", remote)
	return router
}
