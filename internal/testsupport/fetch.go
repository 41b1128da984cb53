package testsupport

import (
	"testing"

	"plparse/internal/fetch"
)

// MemFetcher returns an in-memory fetcher holding files, keyed by URI.
func MemFetcher(t testing.TB, files map[string]string) *fetch.Memory {
	t.Helper()

	mem := fetch.NewMemory()
	for target, body := range files {
		mem.PutString(target, body)
	}
	return mem
}
