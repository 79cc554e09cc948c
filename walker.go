package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// collectEntries walks the configured root and returns the filtered files in
// discovery order, plus any non-fatal traversal errors (unreadable subtrees).
// filepath.WalkDir visits entries lexically, so two walks over an unchanged
// tree yield identical sequences. Symlinked directories are not followed.
func collectEntries(cfg *RunConfig) ([]FileEntry, []error) {
	info, err := os.Stat(cfg.RootPath)
	if err != nil {
		return nil, []error{fmt.Errorf("cannot access path %s: %w", cfg.RootPath, err)}
	}

	if !info.IsDir() {
		return collectSingleFile(cfg, info), nil
	}

	root := filepath.Clean(cfg.RootPath)
	matcher := loadIgnoreMatcher(cfg, root)

	var entries []FileEntry
	var walkErrs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			walkErrs = append(walkErrs, fmt.Errorf("access %s: %w", path, err))
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "Warning: error accessing path %s: %v\n", path, err)
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			walkErrs = append(walkErrs, fmt.Errorf("relativize %s: %w", path, relErr))
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1
		name := d.Name()
		hidden := isHiddenName(name)

		if d.IsDir() {
			if cfg.SkipHidden && hidden {
				return fs.SkipDir
			}
			if _, excluded := cfg.ExcludePaths[name]; excluded {
				return fs.SkipDir
			}
			if cfg.MaxDepth >= 0 && depth >= cfg.MaxDepth {
				return fs.SkipDir
			}
			if matcher != nil && matcher.Match(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if cfg.SkipHidden && hidden {
			return nil
		}
		if _, excluded := cfg.ExcludePaths[name]; excluded {
			return nil
		}
		if cfg.MaxDepth >= 0 && depth > cfg.MaxDepth {
			return nil
		}
		if matcher != nil && matcher.Match(rel, false) {
			return nil
		}
		if !extensionAllowed(name, cfg) {
			return nil
		}
		if !patternAllowed(name, cfg) {
			return nil
		}

		fi, infoErr := d.Info()
		if infoErr != nil {
			walkErrs = append(walkErrs, fmt.Errorf("stat %s: %w", path, infoErr))
			return nil
		}

		entries = append(entries, FileEntry{
			AbsPath: path,
			RelPath: rel,
			Depth:   depth,
			Size:    fi.Size(),
			Hidden:  hidden,
		})
		return nil
	})
	if walkErr != nil {
		walkErrs = append(walkErrs, walkErr)
	}

	return entries, walkErrs
}

// collectSingleFile applies the same filters to a root that is itself a file,
// including a .gitignore next to it. A filtered-out file yields an empty
// sequence; the caller reports it.
func collectSingleFile(cfg *RunConfig, info fs.FileInfo) []FileEntry {
	path := filepath.Clean(cfg.RootPath)
	name := filepath.Base(path)
	hidden := isHiddenName(name)

	if cfg.SkipHidden && hidden {
		return nil
	}
	if _, excluded := cfg.ExcludePaths[name]; excluded {
		return nil
	}
	if matcher := loadIgnoreMatcher(cfg, filepath.Dir(path)); matcher != nil && matcher.Match(name, false) {
		return nil
	}
	if !extensionAllowed(name, cfg) {
		return nil
	}
	if !patternAllowed(name, cfg) {
		return nil
	}

	return []FileEntry{{
		AbsPath: path,
		RelPath: name,
		Depth:   0,
		Size:    info.Size(),
		Hidden:  hidden,
	}}
}

// loadIgnoreMatcher parses the root .gitignore unless disabled. Nested
// .gitignore files are not consulted.
func loadIgnoreMatcher(cfg *RunConfig, root string) gitignore.IgnoreMatcher {
	if cfg.NoIgnore {
		return nil
	}
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(path)
	if err != nil {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: could not parse %s: %v\n", path, err)
		}
		return nil
	}
	return matcher
}

// extensionAllowed applies the include/exclude extension sets. A file with no
// extension fails an include filter (there is nothing to match against).
func extensionAllowed(name string, cfg *RunConfig) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if len(cfg.IncludeExts) > 0 {
		if ext == "" {
			return false
		}
		if _, ok := cfg.IncludeExts[ext]; !ok {
			return false
		}
	}
	if ext != "" {
		if _, ok := cfg.ExcludeExts[ext]; ok {
			return false
		}
	}
	return true
}

// patternAllowed matches the configured glob against the basename only.
// Pattern validity is checked up front in RunConfig.validate.
func patternAllowed(name string, cfg *RunConfig) bool {
	if cfg.Pattern == "" {
		return true
	}
	ok, err := filepath.Match(cfg.Pattern, name)
	if err != nil {
		return false
	}
	return ok
}

// isHiddenName reports whether a path segment is hidden by the dot-prefix
// convention. "." and ".." are path syntax, not hidden names.
func isHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
