package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default context window around search matches, overridable with --context.
const defaultContextLines = 3

// RunConfig is the read-only configuration for one run. It is built once from
// flags/config and passed by pointer into every component; nothing mutates it
// after validate.
type RunConfig struct {
	RootPath string

	// Filtering
	MaxSize      int64 // bytes
	MaxDepth     int   // -1 means unlimited; 0 keeps only the root entry
	IncludeExts  map[string]struct{}
	ExcludeExts  map[string]struct{}
	ExcludePaths map[string]struct{} // exact path-component names
	Pattern      string              // glob matched against basenames
	SkipHidden   bool
	NoIgnore     bool // don't respect the root .gitignore

	// Classification
	ExtraTextExts map[string]struct{} // from languages.yml, consulted after the built-in tables

	// Output
	Sort bool

	// Search
	SearchText    string
	CaseSensitive bool
	ContextLines  int

	// Processing
	NumThreads  int
	Verbose     bool
	CountTokens bool
}

// parseExtensionSet normalizes a comma-separated extension list: trimmed,
// lower-cased, leading dots stripped. Empty input yields a nil set.
func parseExtensionSet(s string) map[string]struct{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// parsePathSet splits a comma-separated list of exact names to exclude.
func parsePathSet(s string) map[string]struct{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// validate checks the configuration before any traversal starts. Errors here
// are fatal: user input that could never produce useful output.
func (cfg *RunConfig) validate() error {
	if cfg.MaxSize <= 0 {
		return fmt.Errorf("max size must be positive, got %d bytes", cfg.MaxSize)
	}
	if cfg.Pattern != "" {
		if _, err := filepath.Match(cfg.Pattern, "probe"); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", cfg.Pattern, err)
		}
	}
	for ext := range cfg.IncludeExts {
		if _, clash := cfg.ExcludeExts[ext]; clash {
			return fmt.Errorf("extension %q is both included and excluded", ext)
		}
	}
	if cfg.ContextLines < 0 {
		return fmt.Errorf("context lines must be >= 0, got %d", cfg.ContextLines)
	}
	if _, err := os.Stat(cfg.RootPath); err != nil {
		return fmt.Errorf("cannot access path %s: %w", cfg.RootPath, err)
	}
	return nil
}

// searching reports whether this run is a content search rather than a dump.
func (cfg *RunConfig) searching() bool {
	return cfg.SearchText != ""
}
