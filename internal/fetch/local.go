package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"plparse/internal/uri"
)

// Local reads file:// URIs and bare absolute paths.
type Local struct {
	maxBytes int64
}

// NewLocal returns a local filesystem fetcher capping full reads at maxBytes.
func NewLocal(maxBytes int64) *Local {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Local{maxBytes: maxBytes}
}

func (l *Local) path(target string) (string, error) {
	p, ok := uri.ToPath(target)
	if !ok {
		return "", fmt.Errorf("%s: %w", target, ErrUnsupportedScheme)
	}
	return p, nil
}

// Stat implements Fetcher.
func (l *Local) Stat(ctx context.Context, target string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	p, err := l.path(target)
	if err != nil {
		return Info{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return Info{}, wrapPathError(p, err)
	}
	mode := info.Mode()
	return Info{
		Size:          info.Size(),
		IsDir:         info.IsDir(),
		IsBlockDevice: mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice == 0,
		ModTime:       info.ModTime(),
	}, nil
}

// Sample implements Fetcher.
func (l *Local) Sample(ctx context.Context, target string, limit int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := l.path(target)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(p)
	if err != nil {
		return nil, wrapPathError(p, err)
	}
	defer file.Close()

	buf := make([]byte, limit)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return buf[:n], nil
}

// ReadAll implements Fetcher.
func (l *Local) ReadAll(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := l.path(target)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(p)
	if err != nil {
		return nil, wrapPathError(p, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s: %w", p, ErrTooLarge)
	}
	return data, nil
}

// ReadDir implements Fetcher. Entries come back in directory order.
func (l *Local) ReadDir(ctx context.Context, target string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := l.path(target)
	if err != nil {
		return nil, err
	}
	if err := unix.Access(p, unix.R_OK|unix.X_OK); errors.Is(err, unix.EACCES) {
		return nil, fmt.Errorf("%s: insufficient permissions: %w", p, err)
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		if errors.Is(err, unix.ENOTDIR) {
			return nil, fmt.Errorf("%s: %w", p, ErrNotDirectory)
		}
		return nil, wrapPathError(p, err)
	}
	out := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, DirEntry{Name: entry.Name(), IsDir: entry.IsDir()})
	}
	return out, nil
}

func wrapPathError(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", p, err)
}
