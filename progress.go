package main

import (
	"os"

	"github.com/mattn/go-isatty"
	progressbar "github.com/schollz/progressbar/v2"
)

// ProgressSink receives completion updates from the executor as files finish
// processing. Implementations must tolerate concurrent calls.
type ProgressSink interface {
	Update(done, total int)
	Finish()
}

// barSink renders a progress bar on stderr. Updates arrive once per completed
// file, so a single Add(1) per call tracks the count exactly.
type barSink struct {
	bar *progressbar.ProgressBar
}

func newBarSink(total int) *barSink {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Processing files"),
	)
	return &barSink{bar: bar}
}

func (s *barSink) Update(done, total int) {
	_ = s.bar.Add(1)
}

func (s *barSink) Finish() {
	_ = s.bar.Finish()
	// Leave the completed bar on its own line.
	os.Stderr.WriteString("\n")
}

// newProgressSink picks a sink for the run: a live bar when stderr is a
// terminal, nothing otherwise (piped and scripted runs stay quiet).
func newProgressSink(total int) ProgressSink {
	if total > 0 && isatty.IsTerminal(os.Stderr.Fd()) {
		return newBarSink(total)
	}
	return nil
}
