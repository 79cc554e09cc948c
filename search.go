package main

import "strings"

// searchContent scans text content for the configured literal pattern and
// returns the matched lines with surrounding context, or nil when nothing
// matched. Matching is substring containment per line, not regex. Context
// windows of adjacent matches merge into one contiguous group.
func searchContent(content string, cfg *RunConfig) *SearchMatch {
	pattern := cfg.SearchText
	if !cfg.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}

	lines := splitLines(content)

	var matched []int
	for i, line := range lines {
		candidate := line
		if !cfg.CaseSensitive {
			candidate = strings.ToLower(candidate)
		}
		if strings.Contains(candidate, pattern) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	// Expand each match by the context window, then merge overlapping or
	// adjacent intervals into contiguous groups.
	type interval struct{ start, end int }
	var merged []interval
	for _, idx := range matched {
		start := idx - cfg.ContextLines
		if start < 0 {
			start = 0
		}
		end := idx + cfg.ContextLines
		if end > len(lines)-1 {
			end = len(lines) - 1
		}
		if n := len(merged); n > 0 && start <= merged[n-1].end+1 {
			if end > merged[n-1].end {
				merged[n-1].end = end
			}
			continue
		}
		merged = append(merged, interval{start, end})
	}

	match := &SearchMatch{}
	for _, iv := range merged {
		group := make([]MatchLine, 0, iv.end-iv.start+1)
		for i := iv.start; i <= iv.end; i++ {
			group = append(group, MatchLine{Number: i + 1, Text: lines[i]})
		}
		match.Groups = append(match.Groups, group)
	}
	return match
}

// splitLines splits on \n, dropping a trailing empty line so that content
// ending in a newline does not report a phantom final line. \r is trimmed to
// keep CRLF files readable.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
