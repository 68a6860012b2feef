package model

import "strings"

// SpanFlags is a bitset describing the typographic style of a span,
// matching the flag values produced by the upstream extractor.
type SpanFlags uint32

const (
	FlagSuperscript SpanFlags = 1 << 0
	FlagItalic      SpanFlags = 1 << 1
	FlagSerif       SpanFlags = 1 << 2
	FlagMonospace   SpanFlags = 1 << 3
	FlagBold        SpanFlags = 1 << 4
)

// Span is an atomic styled text run. Spans are produced once by the upstream
// extractor and treated as read-only input.
type Span struct {
	Text  string
	Font  string
	Size  float64
	Color string // "#rrggbb"
	Flags SpanFlags
}

// Bold reports whether the span is bold
func (s Span) Bold() bool {
	return s.Flags&FlagBold != 0
}

// Italic reports whether the span is italic
func (s Span) Italic() bool {
	return s.Flags&FlagItalic != 0
}

// Line is an ordered sequence of spans sharing a vertical position
type Line struct {
	BBox  BBox
	Spans []Span

	// ForceBreak, when set by a caller-supplied annotation pass, terminates
	// the current paragraph at this line regardless of spacing heuristics.
	ForceBreak bool
}

// Text returns the concatenated text of all spans in the line
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// BlockType identifies the kind of content a block holds
type BlockType int

const (
	BlockText BlockType = iota
	BlockImage
	BlockVector
)

func (t BlockType) String() string {
	switch t {
	case BlockImage:
		return "image"
	case BlockVector:
		return "vector"
	default:
		return "text"
	}
}

// Block is the atomic unit of layout: one or more lines sharing a bounding
// box, as produced by the upstream extractor. Blocks are owned exclusively
// by their page and never shared.
type Block struct {
	BBox  BBox
	Type  BlockType
	Lines []Line

	// ForceBreak terminates the current paragraph before this block
	ForceBreak bool

	// ContinuesTable marks a block as the start of a table region that
	// continues from a previous column or page without a repeated heading.
	// Set by a caller-supplied annotation pass, never inferred from content.
	ContinuesTable bool
}

// Text returns the block's text with lines joined by single spaces
func (b *Block) Text() string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.Text())
	}
	return strings.Join(parts, " ")
}

// Spans returns all spans of the block in order
func (b *Block) Spans() []Span {
	var spans []Span
	for _, l := range b.Lines {
		spans = append(spans, l.Spans...)
	}
	return spans
}

// IsText reports whether the block carries text content
func (b *Block) IsText() bool {
	return b.Type == BlockText && len(b.Lines) > 0
}

// RawTable is a table region detected by the upstream extractor. Raw tables
// are advisory only; authoritative table detection happens during
// reconstruction, not upstream.
type RawTable struct {
	BBox BBox
	Rows [][]string
}

// Page is an ordered list of blocks plus any raw-detected tables
type Page struct {
	Number int // 1-indexed page number
	Width  float64
	Height float64
	Blocks []*Block
	Raw    []RawTable
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
	}
}

// TextBlocks returns the page's text blocks in stored order
func (p *Page) TextBlocks() []*Block {
	var blocks []*Block
	for _, b := range p.Blocks {
		if b.IsText() {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
