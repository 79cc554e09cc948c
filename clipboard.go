package main

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// ClipboardWriter is the boundary to the OS clipboard. The library behind it
// dispatches to the platform backend (pbcopy, xclip/xsel, wl-clipboard,
// termux-clipboard-set); the core only ever hands over a complete report.
type ClipboardWriter interface {
	Write(text string) error
}

type systemClipboard struct{}

func (systemClipboard) Write(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found: install xclip, xsel or wl-clipboard (Linux), or use pbcopy (macOS)")
	}
	return clipboard.WriteAll(text)
}
