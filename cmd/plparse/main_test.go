package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plparse/internal/history"
	"plparse/internal/plparser"
	"plparse/internal/testsupport"
)

func writeMusicDir(t *testing.T, dir string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, "a.mp3"), "ID3 fake audio")
	writeFile(t, filepath.Join(dir, "b.mp3"), "ID3 fake audio")
	list := filepath.Join(dir, "mix.m3u")
	writeFile(t, list, "#EXTM3U\n#EXTINF:60,Song A\na.mp3\nb.mp3\n")
	return list
}

func TestResolveJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))

	out, _, err := runCLI(t, env.configPath, "resolve", "--json", list)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var resp resolveOutput
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if resp.Result != plparser.Success || resp.EntryCount != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Recorded {
		t.Fatal("run recorded without --record")
	}
	first := resp.Events[0]
	if first.Kind != plparser.EventEntry || first.Entry.Title != "Song A" || !strings.HasSuffix(first.Entry.URI, "/music/a.mp3") {
		t.Fatalf("first event = %+v", first)
	}
}

func TestResolveIgnoredSchemePassesThrough(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithIgnoredSchemes("ftp"))

	out, _, err := runCLI(t, env.configPath, "resolve", "--json", "ftp://example.com/list.m3u")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var resp resolveOutput
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if resp.Result != plparser.Success || resp.EntryCount != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if got := resp.Events[0].Entry.URI; got != "ftp://example.com/list.m3u" {
		t.Fatalf("entry uri = %q", got)
	}
}

func TestResolveTable(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))

	out, _, err := runCLI(t, env.configPath, "resolve", list)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "Song A")
	requireContains(t, out, "Result: success (2 entries")
}

func TestResolveRecordAndSave(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))
	saved := filepath.Join(env.baseDir, "music", "copy.pls")

	out, _, err := runCLI(t, env.configPath, "resolve", "--record", "--save", saved, list)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "Recorded as run")
	requireContains(t, out, "Saved pls playlist")

	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved playlist: %v", err)
	}
	requireContains(t, string(data), "File1=a.mp3")
	requireContains(t, string(data), "Title1=Song A")

	out, _, err = runCLI(t, env.configPath, "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs %q: %v", out, err)
	}
	if len(runs) != 1 || runs[0].Source != "cli" || runs[0].EntryCount != 2 {
		t.Fatalf("runs = %+v", runs)
	}

	out, _, err = runCLI(t, env.configPath, "history", "show", shortID(runs[0].ID))
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "Song A")

	if _, _, err := runCLI(t, env.configPath, "history", "show", "ffffffff"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestResolveRejectsUnknownSaveFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))

	_, _, err := runCLI(t, env.configPath, "resolve", "--save", filepath.Join(env.baseDir, "out.txt"), list)
	if err == nil {
		t.Fatal("expected error for unsupported save format")
	}
}

func TestResolveFailureReturnsError(t *testing.T) {
	env := setupCLITestEnv(t)
	broken := filepath.Join(env.baseDir, "broken.pls")
	writeFile(t, broken, "[playlist]\nFile1=http://example.com/a.mp3\n")

	out, _, err := runCLI(t, env.configPath, "resolve", "--no-fallback", "--json", broken)
	if err == nil {
		t.Fatal("expected error for a playlist without NumberOfEntries")
	}
	var resp resolveOutput
	if jsonErr := json.Unmarshal([]byte(out), &resp); jsonErr != nil {
		t.Fatalf("decode %q: %v", out, jsonErr)
	}
	if resp.Result != plparser.Error {
		t.Fatalf("result = %s, want error", resp.Result)
	}
}

func TestClassifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))

	out, _, err := runCLI(t, env.configPath, "classify", "--json", list, filepath.Join(env.baseDir, "music"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var results []classifyOutput
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Type != "audio/x-mpegurl" || !results[0].Handled {
		t.Fatalf("playlist classification = %+v", results[0])
	}
	if results[1].Type != "x-directory/normal" || !results[1].Handled {
		t.Fatalf("directory classification = %+v", results[1])
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	if _, _, err := runCLI(t, env.configPath, "history", "list"); !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("history list err = %v, want errHistoryDisabled", err)
	}
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))
	if _, _, err := runCLI(t, env.configPath, "resolve", "--record", list); !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("resolve --record err = %v, want errHistoryDisabled", err)
	}
}

func TestHistoryPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	list := writeMusicDir(t, filepath.Join(env.baseDir, "music"))
	if _, _, err := runCLI(t, env.configPath, "resolve", "--record", list); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "history", "prune")
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 0 runs older than 90 days")

	if _, _, err := runCLI(t, env.configPath, "history", "prune", "--older-than", "0"); err == nil {
		t.Fatal("expected error for zero retention")
	}
}
