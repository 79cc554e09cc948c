package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// languageInfo is one entry of an optional languages.yml, in the linguist
// format: language name mapped to its extensions and well-known filenames.
type languageInfo struct {
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// loadLanguageExtensions looks for languages.yml in the config directory and
// the working directory, and returns every listed extension as an extra text
// set for the classifier (carried on RunConfig, the built-in tables stay
// untouched). Projects with exotic source extensions get extension-table
// short-circuits instead of per-file content sniffing.
func loadLanguageExtensions() (map[string]struct{}, error) {
	var searchPaths []string
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "yoink"))
	}
	searchPaths = append(searchPaths, ".")

	var langFile string
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, "languages.yml")
		if _, err := os.Stat(candidate); err == nil {
			langFile = candidate
			break
		}
	}
	if langFile == "" {
		return nil, nil // nothing to load, not an error
	}

	raw, err := os.ReadFile(langFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", langFile, err)
	}

	var langs map[string]languageInfo
	if err := yaml.Unmarshal(raw, &langs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", langFile, err)
	}

	extra := make(map[string]struct{})
	for _, info := range langs {
		for _, ext := range info.Extensions {
			norm := strings.ToLower(strings.TrimPrefix(ext, "."))
			if norm == "" {
				continue
			}
			if _, known := knownBinaryExts[norm]; known {
				continue // never demote a known-binary extension
			}
			if _, known := knownTextExts[norm]; known {
				continue
			}
			extra[norm] = struct{}{}
		}
	}
	return extra, nil
}
