package fetch

import (
	"context"
	"fmt"
	"sync"

	"plparse/internal/uri"
)

// Router dispatches to a Fetcher by URI scheme. The empty scheme serves bare
// paths.
type Router struct {
	mu       sync.RWMutex
	backends map[string]Fetcher
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{backends: make(map[string]Fetcher)}
}

// Register installs f for scheme, replacing any previous backend.
func (r *Router) Register(scheme string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[scheme] = f
}

func (r *Router) backend(target string) (Fetcher, error) {
	scheme := uri.Scheme(target)
	r.mu.RLock()
	f, ok := r.backends[scheme]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", target, ErrUnsupportedScheme)
	}
	return f, nil
}

// Stat implements Fetcher.
func (r *Router) Stat(ctx context.Context, target string) (Info, error) {
	f, err := r.backend(target)
	if err != nil {
		return Info{}, err
	}
	return f.Stat(ctx, target)
}

// Sample implements Fetcher.
func (r *Router) Sample(ctx context.Context, target string, limit int) ([]byte, error) {
	f, err := r.backend(target)
	if err != nil {
		return nil, err
	}
	return f.Sample(ctx, target, limit)
}

// ReadAll implements Fetcher.
func (r *Router) ReadAll(ctx context.Context, target string) ([]byte, error) {
	f, err := r.backend(target)
	if err != nil {
		return nil, err
	}
	return f.ReadAll(ctx, target)
}

// ReadDir implements Fetcher.
func (r *Router) ReadDir(ctx context.Context, target string) ([]DirEntry, error) {
	f, err := r.backend(target)
	if err != nil {
		return nil, err
	}
	return f.ReadDir(ctx, target)
}
