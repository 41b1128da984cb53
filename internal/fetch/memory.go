package fetch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory serves resources from an in-memory map keyed by URI. Directories are
// implied by keys sharing a "dir/" prefix. It also counts reads so callers can
// verify that a resource was never touched.
type Memory struct {
	mu      sync.Mutex
	files   map[string][]byte
	devices map[string]bool
	reads   map[string]int
}

// NewMemory returns an empty in-memory fetcher.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte), devices: make(map[string]bool), reads: make(map[string]int)}
}

// PutDevice registers target as a block device.
func (m *Memory) PutDevice(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[target] = true
}

// Put stores data under target.
func (m *Memory) Put(target string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[target] = data
}

// PutString stores s under target.
func (m *Memory) PutString(target, s string) {
	m.Put(target, []byte(s))
}

// Reads returns how many times target was sampled or read.
func (m *Memory) Reads(target string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[target]
}

func (m *Memory) isDir(target string) bool {
	prefix := strings.TrimSuffix(target, "/") + "/"
	for key := range m.files {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Stat implements Fetcher.
func (m *Memory) Stat(ctx context.Context, target string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.devices[target] {
		return Info{IsBlockDevice: true}, nil
	}
	if data, ok := m.files[target]; ok {
		return Info{Size: int64(len(data))}, nil
	}
	if m.isDir(target) {
		return Info{IsDir: true}, nil
	}
	return Info{}, fmt.Errorf("%s: %w", target, ErrNotFound)
}

func (m *Memory) read(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[target]
	if !ok {
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	m.reads[target]++
	return data, nil
}

// Sample implements Fetcher.
func (m *Memory) Sample(ctx context.Context, target string, limit int) ([]byte, error) {
	data, err := m.read(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(data) > limit {
		data = data[:limit]
	}
	return append([]byte(nil), data...), nil
}

// ReadAll implements Fetcher.
func (m *Memory) ReadAll(ctx context.Context, target string) ([]byte, error) {
	data, err := m.read(ctx, target)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

// ReadDir implements Fetcher. Children are returned in reverse name order so
// callers cannot rely on listing order.
func (m *Memory) ReadDir(ctx context.Context, target string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(target, "/") + "/"
	seen := make(map[string]bool)
	for key := range m.files {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || rest == "" {
			continue
		}
		name, _, nested := strings.Cut(rest, "/")
		if prev, ok := seen[name]; !ok || (!prev && nested) {
			seen[name] = nested
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%s: %w", target, ErrNotDirectory)
	}
	out := make([]DirEntry, 0, len(seen))
	for name, dir := range seen {
		out = append(out, DirEntry{Name: name, IsDir: dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}
