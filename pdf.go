package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4, mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// generatePDF renders the aggregate report as a PDF: the directory tree, each
// included text file with syntax highlighting, and the summary. Search-mode
// match blocks are rendered as plain monospaced text.
func generatePDF(report *AggregateReport, results []ClassificationResult, cfg *RunConfig, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	writeHeading(pdf, "=== DIRECTORY STRUCTURE ===")
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, sanitizeTreeForPDF(report.Tree), "", "L", false)
	pdf.Ln(pdfLineHeight)

	writeHeading(pdf, "=== TEXT FILES ===")

	ordered := results
	if cfg.Sort {
		ordered = make([]ClassificationResult, len(results))
		copy(ordered, results)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Entry.RelPath < ordered[j].Entry.RelPath
		})
	}

	for _, res := range ordered {
		if res.Kind != KindText {
			continue
		}
		if cfg.searching() {
			if res.Match == nil {
				continue
			}
			writeHeading(pdf, fmt.Sprintf("MATCH IN: %s", res.Entry.RelPath))
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, matchBlockText(res.Match), "", "L", false)
			pdf.Ln(pdfLineHeight)
			continue
		}

		writeHeading(pdf, res.Entry.RelPath)
		if err := writeHighlighted(pdf, style, string(res.Content), res.Entry.RelPath); err != nil {
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, string(res.Content), "", "L", false)
		}
		pdf.Ln(pdfLineHeight)
	}

	writeHeading(pdf, "=== SUMMARY ===")
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summary := fmt.Sprintf("Text files processed: %d\nBinary files skipped: %d", report.TextCount, report.BinaryCount)
	if report.TooLargeCount > 0 {
		summary += fmt.Sprintf("\nLarge files skipped: %d", report.TooLargeCount)
	}
	if report.ErrorCount > 0 {
		summary += fmt.Sprintf("\nFiles skipped due to errors: %d", report.ErrorCount)
	}
	if cfg.CountTokens {
		summary += fmt.Sprintf("\nTotal tokens: %d", report.TotalTokens)
	}
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, summary, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}

func writeHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, text, "", "L", false)
	pdf.Ln(pdfLineHeight / 2)
}

// sanitizeTreeForPDF swaps the emoji markers for ASCII ones; the core PDF
// fonts cannot encode them.
func sanitizeTreeForPDF(tree string) string {
	tree = strings.ReplaceAll(tree, "📁 ", "[D] ")
	return strings.ReplaceAll(tree, "📄 ", "[F] ")
}

func matchBlockText(match *SearchMatch) string {
	var b strings.Builder
	for i, group := range match.Groups {
		if i > 0 {
			b.WriteString("...\n")
		}
		for _, line := range group {
			fmt.Fprintf(&b, "%d: %s\n", line.Number, line.Text)
		}
	}
	return b.String()
}

// writeHighlighted tokenizes the content with chroma and writes styled runs.
func writeHighlighted(pdf *gofpdf.Fpdf, style *chroma.Style, content, path string) error {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", path, err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			pdf.SetTextColor(0, 0, 0)
		}

		pdf.Write(pdfLineHeight, strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth)))
	}
	pdf.Ln(-1)
	return nil
}
