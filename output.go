package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// treeNode is an entry in the directory tree derived from the walker's
// relative paths. Directories are internal nodes, files are leaves.
type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
	index    map[string]*treeNode
}

func newDirNode(name string) *treeNode {
	return &treeNode{name: name, isDir: true, index: make(map[string]*treeNode)}
}

func (n *treeNode) child(name string, isDir bool) *treeNode {
	if existing, ok := n.index[name]; ok {
		return existing
	}
	var node *treeNode
	if isDir {
		node = newDirNode(name)
	} else {
		node = &treeNode{name: name}
	}
	n.index[name] = node
	n.children = append(n.children, node)
	return node
}

// buildTree reconstructs the directory hierarchy from the walker's entries.
// Ancestor directories are derived from the relative paths, so the tree shows
// exactly the files the walker produced: extension-excluded files are absent
// entirely, while binary and oversized files remain visible.
func buildTree(entries []FileEntry, rootName string, rootIsDir bool) string {
	var b strings.Builder

	if !rootIsDir {
		// Single-file root: the tree is the file itself.
		for _, e := range entries {
			fmt.Fprintf(&b, "📄 %s\n", e.RelPath)
		}
		return b.String()
	}

	root := newDirNode(rootName)
	for _, e := range entries {
		parts := strings.Split(e.RelPath, "/")
		node := root
		for _, dir := range parts[:len(parts)-1] {
			node = node.child(dir, true)
		}
		node.child(parts[len(parts)-1], false)
	}

	fmt.Fprintf(&b, "📁 %s/\n", root.name)
	writeTreeChildren(&b, root, 1)
	return b.String()
}

func writeTreeChildren(b *strings.Builder, node *treeNode, depth int) {
	children := make([]*treeNode, len(node.children))
	copy(children, node.children)
	sort.Slice(children, func(i, j int) bool {
		return children[i].name < children[j].name
	})

	indent := strings.Repeat("  ", depth)
	for _, child := range children {
		if child.isDir {
			fmt.Fprintf(b, "%s📁 %s/\n", indent, child.name)
			writeTreeChildren(b, child, depth+1)
		} else {
			fmt.Fprintf(b, "%s📄 %s\n", indent, child.name)
		}
	}
}

// aggregate merges the per-file results into the final report. Sections are
// ordered by the walker's discovery order, or lexicographically by relative
// path when sorting is requested. walkErrCount folds in traversal errors that
// never produced a FileEntry (unreadable subtrees).
func aggregate(results []ClassificationResult, entries []FileEntry, cfg *RunConfig, rootIsDir bool, walkErrCount int) *AggregateReport {
	report := &AggregateReport{
		Tree:       buildTree(entries, filepath.Base(filepath.Clean(cfg.RootPath)), rootIsDir),
		ErrorCount: walkErrCount,
	}

	ordered := results
	if cfg.Sort {
		ordered = make([]ClassificationResult, len(results))
		copy(ordered, results)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Entry.RelPath < ordered[j].Entry.RelPath
		})
	}

	for _, res := range ordered {
		switch res.Kind {
		case KindText:
			if cfg.searching() {
				if res.Match == nil {
					continue // no matches, no section, no count
				}
				report.Sections = append(report.Sections, formatMatchSection(res))
			} else {
				report.Sections = append(report.Sections, formatContentSection(res))
			}
			report.TextCount++
			report.TotalTokens += res.Tokens
		case KindBinary:
			report.BinaryCount++
		case KindTooLarge:
			report.TooLargeCount++
		case KindError:
			report.ErrorCount++
		}
	}
	return report
}

func formatContentSection(res ClassificationResult) string {
	return fmt.Sprintf("=== %s ===\n%s\n\n", res.Entry.RelPath, res.Content)
}

func formatMatchSection(res ClassificationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== MATCH IN: %s ===\n", res.Entry.RelPath)
	for i, group := range res.Match.Groups {
		if i > 0 {
			b.WriteString("...\n")
		}
		for _, line := range group {
			fmt.Fprintf(&b, "%d: %s\n", line.Number, line.Text)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// renderReport produces the final clipboard text. The frame must match the
// established output format byte for byte.
func renderReport(report *AggregateReport, cfg *RunConfig) string {
	var b strings.Builder

	b.WriteString("=== DIRECTORY STRUCTURE ===\n")
	b.WriteString(report.Tree)
	b.WriteString("\n=== TEXT FILES ===\n\n")

	for _, section := range report.Sections {
		b.WriteString(section)
	}

	b.WriteString("\n=== SUMMARY ===\n")
	fmt.Fprintf(&b, "Text files processed: %d\n", report.TextCount)
	fmt.Fprintf(&b, "Binary files skipped: %d\n", report.BinaryCount)
	if report.TooLargeCount > 0 {
		fmt.Fprintf(&b, "Large files skipped: %d\n", report.TooLargeCount)
	}
	if report.ErrorCount > 0 {
		fmt.Fprintf(&b, "Files skipped due to errors: %d\n", report.ErrorCount)
	}
	if cfg.CountTokens {
		fmt.Fprintf(&b, "Total tokens: %d\n", report.TotalTokens)
	}
	return b.String()
}
