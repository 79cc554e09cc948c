package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// pickRootInteractively walks the working directory and lets the user pick
// the root path with a fuzzy finder. Returns "" (and no error) when the user
// aborts.
func pickRootInteractively(skipHidden bool) (string, error) {
	candidates := []string{"."}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries just don't become candidates
		}
		if path == "." {
			return nil
		}
		if skipHidden && isHiddenName(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning for candidates: %w", err)
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Pick the directory or file to yoink."
			}
			info, statErr := os.Stat(candidates[i])
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError: %v", candidates[i], statErr)
			}
			kind := "File"
			if info.IsDir() {
				kind = "Directory"
			}
			return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", candidates[i], kind, info.Size())
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder: %w", err)
	}
	return candidates[idx], nil
}
