package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/reflow/model"
)

// HTMLOptions holds configuration for HTML rendering.
type HTMLOptions struct {
	// Title is placed in the document head. Empty omits the title element.
	Title string

	// IncludeTOC renders the table of contents as a nav element before
	// the document body content.
	IncludeTOC bool
}

// DefaultHTMLOptions returns the default HTML rendering options.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		IncludeTOC: true,
	}
}

// HTML renders the document as a standalone HTML page using default options.
func HTML(doc *model.Document) (string, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, doc, DefaultHTMLOptions()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteHTML renders the document as a standalone HTML page. Headings carry
// their anchors as id attributes, the TOC links to them, and tables keep
// their header rows and column spans.
func WriteHTML(w io.Writer, doc *model.Document, opts HTMLOptions) error {
	root := buildHTMLTree(doc, opts)
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// buildHTMLTree constructs the full html/head/body node tree
func buildHTMLTree(doc *model.Document, opts HTMLOptions) *html.Node {
	root := element(atom.Html, "html")

	head := element(atom.Head, "head")
	meta := element(atom.Meta, "meta")
	meta.Attr = append(meta.Attr, html.Attribute{Key: "charset", Val: "utf-8"})
	head.AppendChild(meta)
	if opts.Title != "" {
		title := element(atom.Title, "title")
		title.AppendChild(textNode(opts.Title))
		head.AppendChild(title)
	}
	root.AppendChild(head)

	body := element(atom.Body, "body")
	if opts.IncludeTOC && len(doc.TOC) > 0 {
		body.AppendChild(buildTOCNav(doc.TOC))
	}
	for _, node := range doc.Nodes {
		body.AppendChild(buildNode(node))
	}
	root.AppendChild(body)

	return root
}

// buildTOCNav renders the table of contents as nested lists inside a nav
func buildTOCNav(entries []model.TocEntry) *html.Node {
	nav := element(atom.Nav, "nav")
	nav.Attr = append(nav.Attr, html.Attribute{Key: "class", Val: "toc"})
	nav.AppendChild(buildTOCList(entries))
	return nav
}

func buildTOCList(entries []model.TocEntry) *html.Node {
	ul := element(atom.Ul, "ul")
	for _, e := range entries {
		li := element(atom.Li, "li")

		a := element(atom.A, "a")
		a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: "#" + e.Anchor.Slug})
		a.AppendChild(textNode(e.DisplayText))
		li.AppendChild(a)

		if len(e.Children) > 0 {
			li.AppendChild(buildTOCList(e.Children))
		}
		ul.AppendChild(li)
	}
	return ul
}

// buildNode renders one document node
func buildNode(node model.Node) *html.Node {
	switch n := node.(type) {
	case *model.HeadingNode:
		return buildHeading(n)
	case *model.TableNode:
		return buildTable(n)
	case *model.ParagraphNode:
		p := element(atom.P, "p")
		appendSpans(p, n.Spans)
		return p
	default:
		p := element(atom.P, "p")
		p.AppendChild(textNode(node.PlainText()))
		return p
	}
}

// buildHeading renders a heading with its anchor id and, for H1, the roman
// numeral prefix
func buildHeading(h *model.HeadingNode) *html.Node {
	tag := h.Level.HTMLTag()
	heading := element(atom.Lookup([]byte(tag)), tag)
	heading.Attr = append(heading.Attr, html.Attribute{Key: "id", Val: h.Anchor.Slug})

	if h.Numeral != "" {
		heading.AppendChild(textNode(h.Numeral + ". "))
	}
	appendSpans(heading, h.Spans)
	return heading
}

// buildTable renders a table with thead/tbody and colspan attributes
func buildTable(t *model.TableNode) *html.Node {
	table := element(atom.Table, "table")

	headerRows := t.HeaderRows()
	if len(headerRows) > 0 {
		thead := element(atom.Thead, "thead")
		for _, row := range headerRows {
			thead.AppendChild(buildTableRow(row, true))
		}
		table.AppendChild(thead)
	}

	dataRows := t.DataRows()
	if len(dataRows) > 0 {
		tbody := element(atom.Tbody, "tbody")
		for _, row := range dataRows {
			tbody.AppendChild(buildTableRow(row, false))
		}
		table.AppendChild(tbody)
	}

	return table
}

func buildTableRow(row []model.TableCell, header bool) *html.Node {
	tr := element(atom.Tr, "tr")
	for _, cell := range row {
		var td *html.Node
		if header || cell.IsHeader {
			td = element(atom.Th, "th")
		} else {
			td = element(atom.Td, "td")
		}
		if cell.ColSpan > 1 {
			td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(cell.ColSpan)})
		}
		td.AppendChild(textNode(cell.Text))
		tr.AppendChild(td)
	}
	return tr
}

// appendSpans renders styled spans: bold as strong, italic as em, and a
// non-default color as an inline style
func appendSpans(parent *html.Node, spans []model.Span) {
	for _, span := range spans {
		if span.Text == "" {
			continue
		}

		node := textNode(span.Text)

		if span.Italic() {
			em := element(atom.Em, "em")
			em.AppendChild(node)
			node = em
		}
		if span.Bold() {
			strong := element(atom.Strong, "strong")
			strong.AppendChild(node)
			node = strong
		}
		if c := normalizeColor(span.Color); c != "" {
			styled := element(atom.Span, "span")
			styled.Attr = append(styled.Attr, html.Attribute{Key: "style", Val: "color:" + c})
			styled.AppendChild(node)
			node = styled
		}

		parent.AppendChild(node)
	}
}

// normalizeColor returns the span color in lowercase hex form, or the empty
// string for missing or default black text
func normalizeColor(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if c == "" || c == "#000000" || c == "#000" || c == "black" {
		return ""
	}
	return c
}

func element(a atom.Atom, data string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     data,
	}
}

func textNode(text string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: text,
	}
}
