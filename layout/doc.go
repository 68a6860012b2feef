// Package layout provides the analysis passes that recover structure from
// geometry: column flow resolution, heading classification, and paragraph
// merging.
//
// # Column Flow
//
// [FlowResolver] linearizes a page laid out in two columns with occasional
// full-width interrupts. Blocks are partitioned into left, right, and
// full-width streams by x-position, then merged by a simultaneous sweep:
// between consecutive full-width breakpoints, every left-column block in
// that vertical range is emitted before every right-column block.
//
//	resolver := layout.NewFlowResolver()
//	ordered := resolver.Resolve(page)
//
// A block that straddles the column boundary within tolerance is treated
// as full-width rather than guessed into a column. Pages whose layout
// cannot be resolved degrade to [FlowResolver.ResolveLinear].
//
// # Heading Classification
//
// [Classifier] maps a block's typographic signature (dominant font size and
// color) to a heading level using a [StyleTable] built once per document
// from the document's own font-size histogram: the most common size is body
// text, and strictly larger sizes map in descending order to H1 through H4.
// Classification is a pure lookup; no text content is ever matched, and an
// unrecognized signature degrades to body text.
//
//	table := layout.BuildStyleTable(pages)
//	classifier := layout.NewClassifier(table)
//	level, isHeading := classifier.Classify(block)
//
// # Paragraph Merging
//
// [Merger] collapses runs of body-text blocks into paragraphs: lines whose
// vertical gap stays below the same-paragraph threshold are merged, wrap
// hyphenation is repaired ("speciali-" + "zation" becomes
// "specialization"), and explicit force-break directives terminate the
// current paragraph regardless of spacing.
package layout
