package main

import (
	"strings"
	"testing"
)

func TestBuildTreeRendering(t *testing.T) {
	entries := []FileEntry{
		{RelPath: "src/main.go", Depth: 2},
		{RelPath: "src/util/strings.go", Depth: 3},
		{RelPath: "README.md", Depth: 1},
	}

	got := buildTree(entries, "proj", true)
	want := "📁 proj/\n" +
		"  📄 README.md\n" +
		"  📁 src/\n" +
		"    📄 main.go\n" +
		"    📁 util/\n" +
		"      📄 strings.go\n"
	if got != want {
		t.Errorf("tree mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildTreeSingleFileRoot(t *testing.T) {
	entries := []FileEntry{{RelPath: "only.txt", Depth: 0}}
	got := buildTree(entries, "only.txt", false)
	if got != "📄 only.txt\n" {
		t.Errorf("got %q", got)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	got := buildTree(nil, "proj", true)
	if got != "📁 proj/\n" {
		t.Errorf("got %q, want the bare root", got)
	}
}

func TestAggregateCountsAndOrder(t *testing.T) {
	cfg := testConfig("proj")
	results := []ClassificationResult{
		{Entry: FileEntry{RelPath: "b.txt"}, Kind: KindText, Content: []byte("bee")},
		{Entry: FileEntry{RelPath: "a.bin"}, Kind: KindBinary},
		{Entry: FileEntry{RelPath: "a.txt"}, Kind: KindText, Content: []byte("ay")},
		{Entry: FileEntry{RelPath: "huge.txt"}, Kind: KindTooLarge},
		{Entry: FileEntry{RelPath: "broken.txt"}, Kind: KindError},
	}
	entries := make([]FileEntry, len(results))
	for i, r := range results {
		entries[i] = r.Entry
	}

	report := aggregate(results, entries, cfg, true, 0)
	if report.TextCount != 2 || report.BinaryCount != 1 || report.TooLargeCount != 1 || report.ErrorCount != 1 {
		t.Fatalf("counts = %d/%d/%d/%d, want 2/1/1/1",
			report.TextCount, report.BinaryCount, report.TooLargeCount, report.ErrorCount)
	}

	// Discovery order: b.txt before a.txt.
	if len(report.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(report.Sections))
	}
	if !strings.HasPrefix(report.Sections[0], "=== b.txt ===") {
		t.Errorf("first section should be b.txt in discovery order, got %q", report.Sections[0])
	}

	// Name-sorted order: a.txt before b.txt.
	cfg.Sort = true
	sorted := aggregate(results, entries, cfg, true, 0)
	if !strings.HasPrefix(sorted.Sections[0], "=== a.txt ===") {
		t.Errorf("first sorted section should be a.txt, got %q", sorted.Sections[0])
	}
}

func TestAggregateFoldsWalkErrors(t *testing.T) {
	report := aggregate(nil, nil, testConfig("proj"), true, 3)
	if report.ErrorCount != 3 {
		t.Fatalf("ErrorCount = %d, want 3", report.ErrorCount)
	}
}

func TestFormatMatchSectionSeparators(t *testing.T) {
	res := ClassificationResult{
		Entry: FileEntry{RelPath: "src/app.go"},
		Match: &SearchMatch{Groups: [][]MatchLine{
			{{2, "b"}, {3, "MATCH"}, {4, "c"}},
			{{9, "x"}, {10, "MATCH"}},
		}},
	}
	got := formatMatchSection(res)
	want := "=== MATCH IN: src/app.go ===\n" +
		"2: b\n" +
		"3: MATCH\n" +
		"4: c\n" +
		"...\n" +
		"9: x\n" +
		"10: MATCH\n" +
		"\n"
	if got != want {
		t.Errorf("match section mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderReportExactFrame(t *testing.T) {
	cfg := testConfig("proj")
	report := &AggregateReport{
		Tree:        "📁 proj/\n  📄 hello.txt\n",
		Sections:    []string{"=== hello.txt ===\nhi there\n\n"},
		TextCount:   1,
		BinaryCount: 0,
	}

	got := renderReport(report, cfg)
	want := "=== DIRECTORY STRUCTURE ===\n" +
		"📁 proj/\n" +
		"  📄 hello.txt\n" +
		"\n=== TEXT FILES ===\n\n" +
		"=== hello.txt ===\n" +
		"hi there\n" +
		"\n" +
		"\n=== SUMMARY ===\n" +
		"Text files processed: 1\n" +
		"Binary files skipped: 0\n"
	if got != want {
		t.Errorf("report mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderReportOptionalSummaryLines(t *testing.T) {
	cfg := testConfig("proj")
	report := &AggregateReport{Tree: "📁 proj/\n"}

	base := renderReport(report, cfg)
	if strings.Contains(base, "Large files skipped") || strings.Contains(base, "errors") {
		t.Error("optional summary lines must be omitted at zero")
	}

	report.TooLargeCount = 2
	report.ErrorCount = 1
	withSkips := renderReport(report, cfg)
	if !strings.Contains(withSkips, "Large files skipped: 2\n") {
		t.Error("missing large-file line")
	}
	if !strings.Contains(withSkips, "Files skipped due to errors: 1\n") {
		t.Error("missing error line")
	}

	cfg.CountTokens = true
	report.TotalTokens = 42
	withTokens := renderReport(report, cfg)
	if !strings.Contains(withTokens, "Total tokens: 42\n") {
		t.Error("missing token line")
	}
}
