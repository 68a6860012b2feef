// Package export renders reconstructed documents to HTML and markdown.
//
// The HTML renderer builds a node tree and serializes it, so output is
// always well-formed: heading anchors become id attributes, the table of
// contents becomes a nav with nested lists linking to them, and tables
// keep their header rows and column spans.
//
//	page, err := export.HTML(doc)
//
// The markdown renderer produces ATX headings and pipe tables:
//
//	md := export.Markdown(doc)
//
// Both renderers only read the document; they never modify it.
package export
