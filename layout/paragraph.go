package layout

import (
	"strings"
	"unicode"

	"github.com/tsawler/reflow/internal/textutil"
	"github.com/tsawler/reflow/model"
)

// MergeConfig holds configuration for paragraph merging
type MergeConfig struct {
	// SameParagraphGapRatio is the multiplier applied to the preceding
	// line's height: a vertical gap at or below height*ratio keeps the
	// lines in the same paragraph.
	// Default: 0.75
	SameParagraphGapRatio float64
}

// DefaultMergeConfig returns sensible default configuration
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		SameParagraphGapRatio: 0.75,
	}
}

// Merger groups runs of body-text blocks into paragraphs: wrapped lines are
// merged, wrap hyphenation is repaired, and explicit force-break directives
// terminate paragraphs regardless of the spacing heuristic.
type Merger struct {
	config MergeConfig
}

// NewMerger creates a merger with default configuration
func NewMerger() *Merger {
	return &Merger{
		config: DefaultMergeConfig(),
	}
}

// NewMergerWithConfig creates a merger with custom configuration
func NewMergerWithConfig(config MergeConfig) *Merger {
	return &Merger{
		config: config,
	}
}

// Merge collapses a run of body-text blocks (already in reading order) into
// paragraph nodes. Paragraphs with no visible characters are dropped.
func (m *Merger) Merge(blocks []*model.Block) []*model.ParagraphNode {
	var paragraphs []*model.ParagraphNode
	var current []model.Span
	var prevLine *model.Line

	flush := func() {
		if p := buildParagraph(current); p != nil {
			paragraphs = append(paragraphs, p)
		}
		current = nil
		prevLine = nil
	}

	for _, block := range blocks {
		if !block.IsText() {
			continue
		}
		if block.ForceBreak {
			flush()
		}

		for li := range block.Lines {
			line := &block.Lines[li]
			if line.ForceBreak {
				flush()
			}

			if prevLine != nil && !m.sameParagraph(prevLine, line) {
				// A sentence can run off the bottom of one column into the
				// top of the next; a mid-sentence continuation there stays
				// in the same paragraph.
				if !(columnJump(prevLine, line) && continuesSentence(lastVisibleText(current), firstVisibleText(line.Spans))) {
					flush()
				}
			}

			current = appendLineSpans(current, line.Spans)
			prevLine = line
		}
	}

	flush()
	return paragraphs
}

// sameParagraph applies the vertical-gap heuristic between two consecutive
// lines. Lines in different columns (resolved order can jump back to the
// top of the page) never merge on gap alone.
func (m *Merger) sameParagraph(prev, next *model.Line) bool {
	if columnJump(prev, next) {
		return false
	}

	gap := next.BBox.Top() - prev.BBox.Bottom()
	threshold := prev.BBox.Height * m.config.SameParagraphGapRatio
	return gap <= threshold
}

// columnJump reports whether next sits above prev, which in resolved
// reading order marks a column or page boundary
func columnJump(prev, next *model.Line) bool {
	return next.BBox.Top()-prev.BBox.Bottom() < -prev.BBox.Height/2
}

// continuesSentence reports whether next reads as a mid-sentence
// continuation of prev: it starts with a lowercase letter and prev does not
// end with sentence-terminal punctuation. A trailing wrap hyphen on prev is
// a continuation too; appendLineSpans repairs it.
func continuesSentence(prev, next string) bool {
	prev = strings.TrimRight(prev, " ")
	if prev == "" || next == "" {
		return false
	}
	if !unicode.IsLower([]rune(next)[0]) {
		return false
	}

	runes := []rune(prev)
	switch runes[len(runes)-1] {
	case '.', '!', '?', ';':
		return false
	}
	return true
}

// appendLineSpans joins a line's spans onto the accumulated paragraph,
// repairing wrap hyphenation ("speciali-" + "zation" -> "specialization")
// and otherwise separating lines with a single space.
func appendLineSpans(current []model.Span, spans []model.Span) []model.Span {
	if len(spans) == 0 {
		return current
	}
	if len(current) == 0 {
		return append(current, spans...)
	}

	last := &current[len(current)-1]
	nextText := firstVisibleText(spans)

	switch {
	case nextText == "":
		// Nothing visible to join against
	case textutil.IsWrapHyphen(last.Text, nextText):
		last.Text = textutil.TrimWrapHyphen(last.Text)
	case !endsWithSpace(last.Text) && !startsWithSpace(nextText):
		last.Text += " "
	}

	return append(current, spans...)
}

func firstVisibleText(spans []model.Span) string {
	for _, s := range spans {
		if s.Text != "" {
			return s.Text
		}
	}
	return ""
}

func lastVisibleText(spans []model.Span) string {
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].Text != "" {
			return spans[i].Text
		}
	}
	return ""
}

func endsWithSpace(s string) bool {
	return s != "" && strings.HasSuffix(s, " ")
}

func startsWithSpace(s string) bool {
	return s != "" && strings.HasPrefix(s, " ")
}

// buildParagraph materializes the accumulated spans, or nil when the merge
// result has no visible characters.
func buildParagraph(spans []model.Span) *model.ParagraphNode {
	if len(spans) == 0 {
		return nil
	}

	var visible strings.Builder
	for _, s := range spans {
		visible.WriteString(s.Text)
	}
	if strings.TrimSpace(visible.String()) == "" {
		return nil
	}

	owned := make([]model.Span, len(spans))
	copy(owned, spans)
	return &model.ParagraphNode{Spans: owned}
}
