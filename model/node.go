package model

import "strings"

// HeadingLevel represents the hierarchical level of a heading (H1-H4)
type HeadingLevel int

const (
	HeadingLevelUnknown HeadingLevel = iota
	HeadingLevel1                    // H1 - Chapter title
	HeadingLevel2                    // H2 - Major section
	HeadingLevel3                    // H3 - Subsection
	HeadingLevel4                    // H4 - Sub-subsection
)

// String returns a string representation of the heading level
func (l HeadingLevel) String() string {
	switch l {
	case HeadingLevel1:
		return "h1"
	case HeadingLevel2:
		return "h2"
	case HeadingLevel3:
		return "h3"
	case HeadingLevel4:
		return "h4"
	default:
		return "unknown"
	}
}

// HTMLTag returns the HTML tag for this heading level
func (l HeadingLevel) HTMLTag() string {
	if l >= HeadingLevel1 && l <= HeadingLevel4 {
		return l.String()
	}
	return "p"
}

// Anchor is a unique, stable identifier attached to a heading, used for
// cross-referencing and table-of-contents linking. Slugs are unique across
// the whole document; uniqueness is enforced during assembly.
type Anchor struct {
	Slug          string
	Level         HeadingLevel
	SequenceIndex int // global heading index, 0-based
}

// TocEntry is one entry in the document's table of contents. The tree
// mirrors heading nesting: H2 nests under the preceding H1, H3 under the
// preceding H2, and so on.
type TocEntry struct {
	Anchor      Anchor
	DisplayText string
	Children    []TocEntry
}

// NodeKind identifies the concrete type of a document node
type NodeKind int

const (
	KindHeading NodeKind = iota
	KindParagraph
	KindTable
)

func (k NodeKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	default:
		return "paragraph"
	}
}

// Node is a single element of the reconstructed document
type Node interface {
	Kind() NodeKind

	// PlainText returns the node's visible text content. Heading numerals
	// are derived metadata and are not included, so concatenating the
	// plain text of every node reproduces the input span text.
	PlainText() string
}

// HeadingNode is a classified heading with its anchor and, for H1 headings,
// a roman-numeral sequence number.
type HeadingNode struct {
	Anchor  Anchor
	Level   HeadingLevel
	Numeral string // uppercase roman numeral, H1 only
	Spans   []Span
}

func (h *HeadingNode) Kind() NodeKind { return KindHeading }

func (h *HeadingNode) PlainText() string {
	var sb strings.Builder
	for _, s := range h.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ParagraphNode is a merged paragraph with inline styling preserved.
// Paragraph nodes are never empty; zero-length merges are dropped.
type ParagraphNode struct {
	Spans []Span
}

func (p *ParagraphNode) Kind() NodeKind { return KindParagraph }

func (p *ParagraphNode) PlainText() string {
	var sb strings.Builder
	for _, s := range p.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Document is the final reconstructed document: a flat, ordered list of
// typed nodes plus a nested table of contents. Built once during assembly
// and immutable afterward; downstream renderers only read.
type Document struct {
	Nodes []Node
	TOC   []TocEntry
}

// PlainText returns the concatenated text of every node, one node per line
func (d *Document) PlainText() string {
	var sb strings.Builder
	for i, n := range d.Nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(n.PlainText())
	}
	return sb.String()
}

// Headings returns all heading nodes in document order
func (d *Document) Headings() []*HeadingNode {
	var headings []*HeadingNode
	for _, n := range d.Nodes {
		if h, ok := n.(*HeadingNode); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Tables returns all table nodes in document order
func (d *Document) Tables() []*TableNode {
	var tables []*TableNode
	for _, n := range d.Nodes {
		if t, ok := n.(*TableNode); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// FlattenTOC returns every TOC entry in depth-first order
func (d *Document) FlattenTOC() []TocEntry {
	var flat []TocEntry
	var walk func(entries []TocEntry)
	walk = func(entries []TocEntry) {
		for _, e := range entries {
			flat = append(flat, e)
			walk(e.Children)
		}
	}
	walk(d.TOC)
	return flat
}
