package main

// FileEntry is a file discovered by the walker, plus its traversal metadata.
// Entries are immutable after creation; the pipeline hands them off by value.
type FileEntry struct {
	AbsPath string // path as opened on disk
	RelPath string // path relative to the root, slash-separated
	Depth   int    // root itself is depth 0
	Size    int64
	Hidden  bool
}

// FileKind is the classification outcome for a single FileEntry.
type FileKind int

const (
	KindText FileKind = iota
	KindBinary
	KindTooLarge // exceeded the size limit, content never read
	KindError    // unreadable after passing the size gate
)

func (k FileKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindTooLarge:
		return "too-large"
	case KindError:
		return "error"
	}
	return "unknown"
}

// MatchLine is a single line included in a search-match block.
type MatchLine struct {
	Number int // 1-based
	Text   string
}

// SearchMatch holds the contiguous context groups produced for one file.
// Groups are ordered by line number and never overlap; context windows
// around nearby matches are merged into one group.
type SearchMatch struct {
	Groups [][]MatchLine
}

// ClassificationResult is produced exactly once per FileEntry by the
// executor's workers and consumed by the aggregator.
type ClassificationResult struct {
	Entry   FileEntry
	Kind    FileKind
	Content []byte       // full text content, nil unless Kind == KindText
	Tokens  int          // populated when token counting is enabled
	Match   *SearchMatch // populated in search mode, nil when no line matched
	Err     error        // populated when Kind == KindError
}

// AggregateReport is the final structured result of a run. It is rendered to
// text (or PDF) once and then discarded; nothing downstream mutates it.
type AggregateReport struct {
	Tree          string
	Sections      []string // per-file content or match blocks, in final order
	TextCount     int
	BinaryCount   int
	TooLargeCount int
	ErrorCount    int
	TotalTokens   int
}
