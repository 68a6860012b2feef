package export

import (
	"io"
	"strings"

	"github.com/tsawler/reflow/model"
)

// MarkdownOptions holds configuration for markdown rendering.
type MarkdownOptions struct {
	// IncludeTOC renders the table of contents as a linked bullet list
	// before the document content.
	IncludeTOC bool
}

// DefaultMarkdownOptions returns the default markdown rendering options.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{}
}

// Markdown renders the document as markdown using default options.
func Markdown(doc *model.Document) string {
	var sb strings.Builder
	// strings.Builder never returns a write error
	_ = WriteMarkdown(&sb, doc, DefaultMarkdownOptions())
	return sb.String()
}

// WriteMarkdown renders the document as markdown: ATX headings with the H1
// roman numeral prefix, pipe tables, and inline bold/italic styling.
func WriteMarkdown(w io.Writer, doc *model.Document, opts MarkdownOptions) error {
	var sb strings.Builder

	if opts.IncludeTOC && len(doc.TOC) > 0 {
		writeTOCMarkdown(&sb, doc.TOC, 0)
		sb.WriteString("\n")
	}

	for i, node := range doc.Nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch n := node.(type) {
		case *model.HeadingNode:
			writeHeadingMarkdown(&sb, n)
		case *model.TableNode:
			writeTableMarkdown(&sb, n)
		case *model.ParagraphNode:
			sb.WriteString(spansToMarkdown(n.Spans))
			sb.WriteString("\n")
		default:
			sb.WriteString(node.PlainText())
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTOCMarkdown(sb *strings.Builder, entries []model.TocEntry, depth int) {
	for _, e := range entries {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- [")
		sb.WriteString(e.DisplayText)
		sb.WriteString("](#")
		sb.WriteString(e.Anchor.Slug)
		sb.WriteString(")\n")
		writeTOCMarkdown(sb, e.Children, depth+1)
	}
}

func writeHeadingMarkdown(sb *strings.Builder, h *model.HeadingNode) {
	sb.WriteString(strings.Repeat("#", int(h.Level)))
	sb.WriteString(" ")
	if h.Numeral != "" {
		sb.WriteString(h.Numeral)
		sb.WriteString(". ")
	}
	sb.WriteString(strings.TrimSpace(h.PlainText()))
	sb.WriteString("\n")
}

// writeTableMarkdown renders a pipe table. Markdown has no colspan, so a
// widened cell is followed by empty cells to keep the column count stable.
func writeTableMarkdown(sb *strings.Builder, t *model.TableNode) {
	cols := t.ColumnCount()
	if cols == 0 {
		return
	}

	headerRows := t.HeaderRows()
	dataRows := t.DataRows()

	// Markdown requires exactly one header row; extra header rows render
	// as data
	if len(headerRows) > 0 {
		writeTableRowMarkdown(sb, headerRows[0], cols)
		combined := make([][]model.TableCell, 0, len(headerRows)-1+len(dataRows))
		combined = append(combined, headerRows[1:]...)
		combined = append(combined, dataRows...)
		dataRows = combined
	} else {
		sb.WriteString("|")
		sb.WriteString(strings.Repeat(" |", cols))
		sb.WriteString("\n")
	}

	sb.WriteString("|")
	sb.WriteString(strings.Repeat(" --- |", cols))
	sb.WriteString("\n")

	for _, row := range dataRows {
		writeTableRowMarkdown(sb, row, cols)
	}
}

func writeTableRowMarkdown(sb *strings.Builder, row []model.TableCell, cols int) {
	sb.WriteString("|")
	written := 0
	for _, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(escapeMarkdownCell(cell.Text))
		sb.WriteString(" |")
		written++
		span := cell.ColSpan
		for ; span > 1; span-- {
			sb.WriteString(" |")
			written++
		}
	}
	for ; written < cols; written++ {
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func escapeMarkdownCell(text string) string {
	return strings.ReplaceAll(text, "|", "\\|")
}

// spansToMarkdown renders styled spans with ** and * markers
func spansToMarkdown(spans []model.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		text := span.Text
		switch {
		case span.Bold() && span.Italic():
			sb.WriteString("***")
			sb.WriteString(strings.TrimSpace(text))
			sb.WriteString("***")
		case span.Bold():
			sb.WriteString("**")
			sb.WriteString(strings.TrimSpace(text))
			sb.WriteString("**")
		case span.Italic():
			sb.WriteString("*")
			sb.WriteString(strings.TrimSpace(text))
			sb.WriteString("*")
		default:
			sb.WriteString(text)
			continue
		}
		// Styled spans trimmed the surrounding space; restore the trailing
		// separator when the source had one
		if strings.HasSuffix(text, " ") {
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}
