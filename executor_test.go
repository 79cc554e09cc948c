package main

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// recordingSink counts executor progress updates; safe for concurrent use.
type recordingSink struct {
	mu       sync.Mutex
	updates  int
	total    int
	finished bool
}

func (s *recordingSink) Update(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.total = total
}

func (s *recordingSink) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
}

// panicTokenizer blows up on a chosen substring to exercise worker recovery.
type panicTokenizer struct{ trigger string }

func (p panicTokenizer) CountTokens(text string) int {
	if p.trigger != "" && len(text) > 0 && text == p.trigger {
		panic("tokenizer exploded")
	}
	return len(text)
}

func (p panicTokenizer) Close() {}

func TestProcessEntriesPreservesPositions(t *testing.T) {
	root := t.TempDir()
	var entries []FileEntry
	for i := 0; i < 50; i++ {
		rel := fmt.Sprintf("file%02d.txt", i)
		path := writeFile(t, root, rel, []byte(rel))
		entries = append(entries, FileEntry{AbsPath: path, RelPath: rel, Size: int64(len(rel))})
	}

	cfg := testConfig(root)
	cfg.NumThreads = 8

	results, err := processEntries(context.Background(), entries, cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(entries) {
		t.Fatalf("got %d results, want %d", len(results), len(entries))
	}
	for i, res := range results {
		if res.Entry.RelPath != entries[i].RelPath {
			t.Errorf("results[%d] holds %q, want %q", i, res.Entry.RelPath, entries[i].RelPath)
		}
		if res.Kind != KindText {
			t.Errorf("results[%d].Kind = %v, want text", i, res.Kind)
		}
	}
}

func TestProcessEntriesEveryFileExactlyOnce(t *testing.T) {
	root := t.TempDir()
	var entries []FileEntry
	for i := 0; i < 20; i++ {
		rel := fmt.Sprintf("f%d.txt", i)
		path := writeFile(t, root, rel, []byte("x"))
		entries = append(entries, FileEntry{AbsPath: path, RelPath: rel, Size: 1})
	}

	cfg := testConfig(root)
	cfg.NumThreads = 4
	sink := &recordingSink{}

	if _, err := processEntries(context.Background(), entries, cfg, nil, sink); err != nil {
		t.Fatal(err)
	}
	if sink.updates != len(entries) {
		t.Errorf("sink saw %d updates, want %d (one per file)", sink.updates, len(entries))
	}
	if sink.total != len(entries) {
		t.Errorf("sink total = %d, want %d", sink.total, len(entries))
	}
	if !sink.finished {
		t.Error("sink was never finished")
	}
}

func TestProcessEntriesPanicBecomesErrorResult(t *testing.T) {
	root := t.TempDir()
	good := writeFile(t, root, "good.txt", []byte("fine"))
	bad := writeFile(t, root, "bad.txt", []byte("boom"))
	entries := []FileEntry{
		{AbsPath: good, RelPath: "good.txt", Size: 4},
		{AbsPath: bad, RelPath: "bad.txt", Size: 4},
	}

	cfg := testConfig(root)
	cfg.CountTokens = true
	cfg.NumThreads = 2

	results, err := processEntries(context.Background(), entries, cfg, panicTokenizer{trigger: "boom"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Kind != KindText {
		t.Errorf("good file Kind = %v, want text (panic must not leak across files)", results[0].Kind)
	}
	if results[1].Kind != KindError {
		t.Fatalf("bad file Kind = %v, want error", results[1].Kind)
	}
	if results[1].Err == nil {
		t.Error("converted panic should carry an error")
	}
}

func TestProcessEntriesReadErrorIsIsolated(t *testing.T) {
	root := t.TempDir()
	good := writeFile(t, root, "good.txt", []byte("fine"))
	entries := []FileEntry{
		{AbsPath: good, RelPath: "good.txt", Size: 4},
		// Classified text by extension, but gone by the time the worker
		// reads it.
		{AbsPath: root + "/vanished.txt", RelPath: "vanished.txt", Size: 4},
	}

	results, err := processEntries(context.Background(), entries, testConfig(root), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Kind != KindText {
		t.Errorf("good file Kind = %v, want text", results[0].Kind)
	}
	if results[1].Kind != KindError {
		t.Errorf("vanished file Kind = %v, want error", results[1].Kind)
	}
}

func TestProcessEntriesCancellation(t *testing.T) {
	root := t.TempDir()
	var entries []FileEntry
	for i := 0; i < 100; i++ {
		rel := fmt.Sprintf("f%d.txt", i)
		path := writeFile(t, root, rel, []byte("x"))
		entries = append(entries, FileEntry{AbsPath: path, RelPath: rel, Size: 1})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before any work is handed out

	cfg := testConfig(root)
	cfg.NumThreads = 2

	if _, err := processEntries(ctx, entries, cfg, nil, nil); err == nil {
		t.Fatal("cancelled context should surface an error")
	}
}

func TestProcessEntriesSearchMode(t *testing.T) {
	root := t.TempDir()
	hit := writeFile(t, root, "hit.txt", []byte("alpha\nneedle\nomega\n"))
	miss := writeFile(t, root, "miss.txt", []byte("nothing to see\n"))
	entries := []FileEntry{
		{AbsPath: hit, RelPath: "hit.txt", Size: 19},
		{AbsPath: miss, RelPath: "miss.txt", Size: 15},
	}

	cfg := testConfig(root)
	cfg.SearchText = "needle"
	cfg.ContextLines = 1

	results, err := processEntries(context.Background(), entries, cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Match == nil {
		t.Error("hit.txt should carry a match")
	}
	if results[1].Match != nil {
		t.Error("miss.txt should carry no match")
	}
	if results[1].Content != nil {
		t.Error("zero-match content should be dropped")
	}
}
