package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
)

// indexedEntry carries a file's position in the walker's discovery order so
// results can be placed back in sequence no matter which worker finishes
// first.
type indexedEntry struct {
	idx   int
	entry FileEntry
}

// processEntries classifies (and optionally searches and token-counts) every
// entry using a fixed pool of workers. The returned slice is position-aligned
// with entries: results[i] always corresponds to entries[i]. Workers share no
// mutable state beyond the progress counter; each slot of the result slice is
// written exactly once by exactly one worker.
//
// Cancellation via ctx abandons outstanding work and returns the context
// error; partial results are discarded by the caller.
func processEntries(ctx context.Context, entries []FileEntry, cfg *RunConfig, tk Tokenizer, sink ProgressSink) ([]ClassificationResult, error) {
	results := make([]ClassificationResult, len(entries))
	if len(entries) == 0 {
		return results, nil
	}

	workers := cfg.NumThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	jobs := make(chan indexedEntry)
	var done atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.idx] = processOne(job.entry, cfg, tk)
				current := done.Add(1)
				if sink != nil {
					sink.Update(int(current), len(entries))
				}
			}
		}()
	}

	// Feed jobs until done or cancelled. Closing jobs lets workers drain.
	var feedErr error
feed:
	for i, entry := range entries {
		select {
		case jobs <- indexedEntry{idx: i, entry: entry}:
		case <-ctx.Done():
			feedErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if sink != nil {
		sink.Finish()
	}
	if feedErr != nil {
		return nil, feedErr
	}
	return results, nil
}

// processOne runs the per-file pipeline: classify, read content for text
// files, search, count tokens. A panic in any stage is converted into a
// KindError result for that file alone; it never aborts the batch.
func processOne(entry FileEntry, cfg *RunConfig, tk Tokenizer) (res ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ClassificationResult{
				Entry: entry,
				Kind:  KindError,
				Err:   fmt.Errorf("panic processing %s: %v", entry.RelPath, r),
			}
		}
	}()

	res = classify(entry, cfg)
	if res.Kind != KindText {
		return res
	}

	content, err := os.ReadFile(entry.AbsPath)
	if err != nil {
		return ClassificationResult{Entry: entry, Kind: KindError, Err: err}
	}
	res.Content = content

	if cfg.searching() {
		res.Match = searchContent(string(content), cfg)
		if res.Match == nil {
			// No matches: the file contributes nothing downstream, so the
			// content is not carried along.
			res.Content = nil
			return res
		}
	}

	if cfg.CountTokens && tk != nil {
		res.Tokens = tk.CountTokens(string(content))
	}
	return res
}
