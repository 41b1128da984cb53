package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// HTTP reads http and https URIs.
type HTTP struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTP returns a remote fetcher using its own client.
func NewHTTP(opts Options) *HTTP {
	opts = opts.withDefaults()
	return &HTTP{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
	}
}

// NewHTTPWithClient lets tests and embedders supply the client.
func NewHTTPWithClient(client *http.Client, opts Options) *HTTP {
	h := NewHTTP(opts)
	if client != nil {
		h.client = client
	}
	return h
}

func (h *HTTP) do(ctx context.Context, method, target string, limit int) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	if limit > 0 {
		req.Header.Set("Range", "bytes=0-"+strconv.Itoa(limit-1))
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, target, resp.StatusCode)
	}
	return resp, nil
}

// Stat implements Fetcher with a HEAD request.
func (h *HTTP) Stat(ctx context.Context, target string) (Info, error) {
	resp, err := h.do(ctx, http.MethodHead, target, 0)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	return Info{Size: resp.ContentLength, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Sample implements Fetcher. Servers ignoring Range are cut off after limit
// bytes.
func (h *HTTP) Sample(ctx context.Context, target string, limit int) ([]byte, error) {
	resp, err := h.do(ctx, http.MethodGet, target, limit)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(limit)))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return data, nil
}

// ReadAll implements Fetcher.
func (h *HTTP) ReadAll(ctx context.Context, target string) ([]byte, error) {
	resp, err := h.do(ctx, http.MethodGet, target, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.ContentLength > h.maxBytes {
		return nil, fmt.Errorf("%s: %w", target, ErrTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("%s: %w", target, ErrTooLarge)
	}
	return data, nil
}

// ReadDir implements Fetcher. Remote listings are not supported.
func (h *HTTP) ReadDir(_ context.Context, target string) ([]DirEntry, error) {
	return nil, fmt.Errorf("list %s: %w", target, ErrUnsupportedScheme)
}
