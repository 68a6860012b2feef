package reflow

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/reflow/internal/textutil"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/tables"
)

// Assembler orchestrates the reconstruction passes in fixed order: column
// flow resolution, heading classification, table reconstruction, paragraph
// merging, and TOC derivation. It is the only component that mutates
// document-global counters; every pass below it is a pure function of its
// local input.
//
// An Assembler is safe for concurrent use: all mutable state lives in a
// per-call assembly context.
type Assembler struct {
	flow             *layout.FlowResolver
	merger           *layout.Merger
	reconstructor    *tables.Reconstructor
	classifierConfig layout.ClassifierConfig
	styleTable       *layout.StyleTable
	logger           *slog.Logger
	workers          int
}

// NewAssembler creates an assembler with default configuration, modified
// by any options.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		flow:             layout.NewFlowResolver(),
		merger:           layout.NewMerger(),
		reconstructor:    tables.NewReconstructor(),
		classifierConfig: layout.DefaultClassifierConfig(),
		workers:          1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// assemblyContext owns every mutable counter of one assembly run: the
// global heading index, the H1 roman-numeral counter, and the anchor
// registry. It is created per call, never shared, so one Assembler can
// build multiple documents concurrently.
type assemblyContext struct {
	headingIndex int
	h1Count      int
	slugCounts   map[string]int
	warnings     []Warning
	logger       *slog.Logger
}

func newAssemblyContext(logger *slog.Logger) *assemblyContext {
	return &assemblyContext{
		slugCounts: make(map[string]int),
		logger:     logger,
	}
}

// anchorFor allocates the next anchor for a heading. Two headings that
// normalize to the same slug collide; the later one receives a numeric
// suffix and a warning is recorded. An earlier anchor is never overwritten.
func (ctx *assemblyContext) anchorFor(level model.HeadingLevel, text string) model.Anchor {
	index := ctx.headingIndex
	ctx.headingIndex++

	slug := textutil.Slugify(text)
	ctx.slugCounts[slug]++
	full := fmt.Sprintf("header-%d-%s", index, slug)

	if n := ctx.slugCounts[slug]; n > 1 {
		full = fmt.Sprintf("%s-%d", full, n)
		ctx.warn(WarningAnchorCollision,
			fmt.Sprintf("heading %q produces duplicate slug %q; using suffix -%d", text, slug, n))
	}

	return model.Anchor{
		Slug:          full,
		Level:         level,
		SequenceIndex: index,
	}
}

// nextNumeral advances the H1 counter and returns its roman numeral
func (ctx *assemblyContext) nextNumeral() string {
	ctx.h1Count++
	return textutil.RomanUpper(ctx.h1Count)
}

func (ctx *assemblyContext) warn(code WarningCode, message string) {
	ctx.warnings = append(ctx.warnings, Warning{Code: code, Message: message})
	if ctx.logger != nil {
		ctx.logger.Warn(message, "code", string(code))
	}
}

// Assemble runs the full pipeline over the given pages and returns the
// reconstructed document. A degraded-but-complete document is always
// produced for well-formed input; the only error is malformed input (a
// text block with an empty bounding box), reported rather than silently
// dropped.
func (a *Assembler) Assemble(pages []*model.Page) (*model.Document, []Warning, error) {
	if err := validatePages(pages); err != nil {
		return nil, nil, err
	}

	// Per-page flow resolution is pure and parallelizable; everything
	// after it operates on one globally ordered stream.
	resolved := a.flow.ResolvePagesParallel(pages, a.workers)
	var stream []*model.Block
	for _, pageBlocks := range resolved {
		stream = append(stream, pageBlocks...)
	}

	table := a.styleTable
	if table == nil {
		built := layout.BuildStyleTableWithConfig(pages, a.classifierConfig)
		table = &built
	}
	classifier := layout.NewClassifier(*table)

	ctx := newAssemblyContext(a.logger)
	doc := &model.Document{}

	// Pending run of body-text blocks awaiting paragraph merging
	var pending []*model.Block
	flush := func() {
		for _, p := range a.merger.Merge(pending) {
			doc.Nodes = append(doc.Nodes, p)
		}
		pending = nil
	}

	// A table candidate region begins immediately after a heading, or at
	// a block explicitly marked as a table continuation.
	tableEligible := false

	for i := 0; i < len(stream); i++ {
		block := stream[i]
		if !block.IsText() {
			continue
		}

		if level, ok := classifier.Classify(block); ok {
			flush()
			doc.Nodes = append(doc.Nodes, a.buildHeading(ctx, level, block))
			tableEligible = true
			continue
		}

		if tableEligible || block.ContinuesTable {
			run := candidateRun(stream[i:], classifier)
			if result := a.reconstructor.Reconstruct(run); result != nil {
				flush()
				doc.Nodes = append(doc.Nodes, result.Table)
				// Consumed blocks leave the stream entirely so they are
				// never re-emitted as paragraph text
				i += result.Consumed - 1
				tableEligible = false
				continue
			}
		}

		tableEligible = false
		pending = append(pending, block)
	}
	flush()

	doc.TOC = buildTOC(doc.Headings())

	return doc, ctx.warnings, nil
}

// validatePages rejects text blocks with empty bounding boxes
func validatePages(pages []*model.Page) error {
	for _, page := range pages {
		if page == nil {
			continue
		}
		for bi, block := range page.Blocks {
			if block.IsText() && block.BBox.IsEmpty() {
				return &MalformedInputError{Page: page.Number, Block: bi}
			}
		}
	}
	return nil
}

// buildHeading allocates the heading's anchor and, for H1, its roman
// numeral
func (a *Assembler) buildHeading(ctx *assemblyContext, level model.HeadingLevel, block *model.Block) *model.HeadingNode {
	text := strings.TrimSpace(block.Text())
	h := &model.HeadingNode{
		Anchor: ctx.anchorFor(level, text),
		Level:  level,
		Spans:  block.Spans(),
	}
	if level == model.HeadingLevel1 {
		h.Numeral = ctx.nextNumeral()
	}
	return h
}

// candidateRun slices the stream up to (not including) the next heading,
// so table reconstruction can never swallow a heading block
func candidateRun(stream []*model.Block, classifier *layout.Classifier) []*model.Block {
	for i, b := range stream {
		if _, ok := classifier.Classify(b); ok {
			return stream[:i]
		}
	}
	return stream
}

// buildTOC nests headings by level: each heading becomes a child of the
// nearest preceding heading with a smaller level. An H3 with no preceding
// H2 therefore nests directly under the last H1.
func buildTOC(headings []*model.HeadingNode) []model.TocEntry {
	type frame struct {
		level model.HeadingLevel
		entry *model.TocEntry
	}

	var roots []*model.TocEntry
	var stack []frame

	for _, h := range headings {
		entry := &model.TocEntry{
			Anchor:      h.Anchor,
			DisplayText: tocDisplayText(h),
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1].entry
			parent.Children = append(parent.Children, *entry)
			entry = &parent.Children[len(parent.Children)-1]
		}

		stack = append(stack, frame{level: h.Level, entry: entry})
	}

	toc := make([]model.TocEntry, len(roots))
	for i, r := range roots {
		toc[i] = *r
	}
	return toc
}

// tocDisplayText renders the heading's display text, with the roman
// numeral prefix for H1 entries
func tocDisplayText(h *model.HeadingNode) string {
	text := strings.TrimSpace(h.PlainText())
	if h.Numeral != "" {
		return h.Numeral + ". " + text
	}
	return text
}
