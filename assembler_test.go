package reflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
)

// testStyleTable avoids histogram construction so fixtures stay small
func testStyleTable() layout.StyleTable {
	return layout.StyleTable{
		BodySize: 10,
		Thresholds: []layout.StyleThreshold{
			{MinSize: 18, Level: model.HeadingLevel1},
			{MinSize: 14, Level: model.HeadingLevel2},
			{MinSize: 12, Level: model.HeadingLevel3},
		},
	}
}

func styled(x, y, width float64, text string, size float64, flags model.SpanFlags) *model.Block {
	bbox := model.NewBBox(x, y, width, size)
	return &model.Block{
		BBox: bbox,
		Lines: []model.Line{
			{BBox: bbox, Spans: []model.Span{{Text: text, Size: size, Flags: flags}}},
		},
	}
}

// fullWidth creates a full-width block on a 100pt-wide page
func fullWidth(y float64, text string, size float64) *model.Block {
	return styled(10, y, 80, text, size, 0)
}

func singlePage(blocks ...*model.Block) []*model.Page {
	page := model.NewPage(100, 400)
	page.Number = 1
	page.Blocks = blocks
	return []*model.Page{page}
}

func TestAssembleDocumentStructure(t *testing.T) {
	pages := singlePage(
		fullWidth(0, "Factions", 18),
		fullWidth(30, "The city's factions vie for power in the shadows.", 10),
		fullWidth(60, "The Templars", 14),
		fullWidth(90, "Templars serve the sorcerer-king without question.", 10),
	)

	doc, warnings, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, doc.Nodes, 4)

	h1, ok := doc.Nodes[0].(*model.HeadingNode)
	require.True(t, ok)
	assert.Equal(t, model.HeadingLevel1, h1.Level)
	assert.Equal(t, "header-0-factions", h1.Anchor.Slug)
	assert.Equal(t, "I", h1.Numeral)
	assert.Equal(t, 0, h1.Anchor.SequenceIndex)

	h2, ok := doc.Nodes[2].(*model.HeadingNode)
	require.True(t, ok)
	assert.Equal(t, model.HeadingLevel2, h2.Level)
	assert.Equal(t, "header-1-the-templars", h2.Anchor.Slug)
	assert.Empty(t, h2.Numeral)

	// H2 nests under the preceding H1
	require.Len(t, doc.TOC, 1)
	assert.Equal(t, "I. Factions", doc.TOC[0].DisplayText)
	require.Len(t, doc.TOC[0].Children, 1)
	assert.Equal(t, "The Templars", doc.TOC[0].Children[0].DisplayText)
}

func TestAnchorCollisionDisambiguated(t *testing.T) {
	pages := singlePage(
		fullWidth(0, "Factions", 18),
		fullWidth(30, "The Templars", 14),
		fullWidth(60, "Templars of the first city.", 10),
		fullWidth(90, "The Templars", 14),
		fullWidth(120, "Templars of the second city.", 10),
	)

	doc, warnings, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 3)
	assert.Equal(t, "header-1-the-templars", headings[1].Anchor.Slug)
	assert.Equal(t, "header-2-the-templars-2", headings[2].Anchor.Slug)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningAnchorCollision, warnings[0].Code)
	assert.NotEmpty(t, FormatWarnings(warnings))
}

func TestAnchorUniqueness(t *testing.T) {
	pages := singlePage(
		fullWidth(0, "Trade", 18),
		fullWidth(30, "Water", 14),
		fullWidth(60, "Water", 14),
		fullWidth(90, "Water", 14),
		fullWidth(120, "Iron", 14),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	flat := doc.FlattenTOC()
	seen := make(map[string]bool)
	for _, e := range flat {
		seen[e.Anchor.Slug] = true
	}
	assert.Equal(t, len(flat), len(seen), "anchor slugs must be unique")
}

func TestNumberingMonotonicity(t *testing.T) {
	pages := singlePage(
		fullWidth(0, "The First Age", 18),
		fullWidth(30, "Cities", 14),
		fullWidth(60, "The Second Age", 18),
		fullWidth(90, "The Third Age", 18),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	var numerals []string
	for _, h := range doc.Headings() {
		if h.Level == model.HeadingLevel1 {
			numerals = append(numerals, h.Numeral)
		} else {
			assert.Empty(t, h.Numeral, "only H1 headings carry numerals")
		}
	}
	assert.Equal(t, []string{"I", "II", "III"}, numerals)
}

func TestTableReconstructionAfterHeading(t *testing.T) {
	cell := func(x, y float64, text string, size float64, flags model.SpanFlags) *model.Block {
		return styled(x, y, 30, text, size, flags)
	}

	pages := singlePage(
		fullWidth(0, "Stats", 14),
		// Header fragment in a distinct style, then a 2x3 body grid
		cell(10, 20, "Str", 10, model.FlagBold),
		cell(10, 40, "9", 10, 0),
		cell(60, 40, "12", 10, 0),
		cell(10, 60, "15", 10, 0),
		cell(60, 60, "9", 10, 0),
		cell(10, 80, "Strength", 10, 0),
		cell(60, 80, "0", 10, 0),
		fullWidth(110, "Scores above fifteen are the stuff of legend.", 10),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	tables := doc.Tables()
	require.Len(t, tables, 1)
	table := tables[0]

	assert.Equal(t, 1, table.HeaderRowCount)
	require.Equal(t, 4, table.RowCount())
	header := table.Rows[0]
	require.Len(t, header, 1)
	assert.Equal(t, "Str", header[0].Text)
	assert.Equal(t, 2, header[0].ColSpan)

	// Table exclusivity: consumed fragments never reappear as paragraphs
	for _, n := range doc.Nodes {
		if p, ok := n.(*model.ParagraphNode); ok {
			text := p.PlainText()
			assert.NotContains(t, text, "Strength")
			assert.NotContains(t, text, "15")
		}
	}

	// The trailing paragraph survives untouched
	last, ok := doc.Nodes[len(doc.Nodes)-1].(*model.ParagraphNode)
	require.True(t, ok)
	assert.Contains(t, last.PlainText(), "stuff of legend")
}

func TestNoTableWithoutHeadingAdjacency(t *testing.T) {
	// Short blocks not preceded by a heading or continuation marker are
	// merged as text, not reconstructed into a table
	pages := singlePage(
		fullWidth(0, "Running text comes first on this page.", 10),
		styled(10, 20, 30, "alpha", 10, 0),
		styled(60, 20, 30, "beta", 10, 0),
		styled(10, 40, 30, "gamma", 10, 0),
		styled(60, 40, 30, "delta", 10, 0),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)
	assert.Empty(t, doc.Tables())
}

func TestContinuesTableMarker(t *testing.T) {
	first := styled(10, 0, 30, "a", 10, 0)
	first.ContinuesTable = true

	pages := singlePage(
		first,
		styled(60, 0, 30, "b", 10, 0),
		styled(10, 20, 30, "c", 10, 0),
		styled(60, 20, 30, "d", 10, 0),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)
	require.Len(t, doc.Tables(), 1)
}

func TestTOCNestingSkippedLevel(t *testing.T) {
	// An H3 with no preceding H2 nests directly under the last H1
	pages := singlePage(
		fullWidth(0, "Geography", 18),
		fullWidth(30, "The Ringing Mountains", 12),
	)

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	require.Len(t, doc.TOC, 1)
	require.Len(t, doc.TOC[0].Children, 1)
	assert.Equal(t, model.HeadingLevel3, doc.TOC[0].Children[0].Anchor.Level)
}

func TestParagraphContinuesAcrossColumns(t *testing.T) {
	// A word wrapped at the bottom of the left column continues at the
	// top of the right column: one paragraph, hyphen repaired
	page := model.NewPage(100, 400)
	page.Number = 1
	page.Blocks = []*model.Block{
		styled(10, 170, 35, "Among the templars, speciali-", 10, 0),
		styled(55, 0, 35, "zation is rare.", 10, 0),
	}

	doc, _, err := Reconstruct([]*model.Page{page}, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 1)
	para, ok := doc.Nodes[0].(*model.ParagraphNode)
	require.True(t, ok)
	assert.Equal(t, "Among the templars, specialization is rare.", para.PlainText())
}

func TestNoDataLossRoundTrip(t *testing.T) {
	pages := singlePage(
		fullWidth(0, "Factions", 18),
		fullWidth(30, "The templars patrol the city", 10),
		fullWidth(41, "in groups of three.", 10),
		fullWidth(70, "The Templars", 14),
		fullWidth(100, "They answer only to the king.", 10),
	)

	var input strings.Builder
	for _, page := range pages {
		for _, block := range page.Blocks {
			for _, span := range block.Spans() {
				input.WriteString(span.Text)
				input.WriteString(" ")
			}
		}
	}

	doc, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)

	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}
	assert.Equal(t, normalize(input.String()), normalize(doc.PlainText()))
}

func TestIdempotence(t *testing.T) {
	build := func() []*model.Page {
		return singlePage(
			fullWidth(0, "Factions", 18),
			fullWidth(30, "The Templars", 14),
			fullWidth(60, "Body text about the templars.", 10),
			fullWidth(90, "The Templars", 14),
		)
	}

	assembler := NewAssembler(WithStyleTable(testStyleTable()))
	doc1, w1, err1 := assembler.Assemble(build())
	doc2, w2, err2 := assembler.Assemble(build())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, doc1, doc2)
	assert.Equal(t, w1, w2)
}

func TestParallelResolutionMatchesSequential(t *testing.T) {
	var pages []*model.Page
	for p := 0; p < 6; p++ {
		page := model.NewPage(100, 400)
		page.Number = p + 1
		page.Blocks = []*model.Block{
			fullWidth(0, "Heading", 14),
			styled(10, 20, 35, "left column text here", 10, 0),
			styled(55, 20, 35, "right column text here", 10, 0),
		}
		pages = append(pages, page)
	}

	sequential, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.NoError(t, err)
	parallel, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()), WithWorkers(4))
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestMalformedInput(t *testing.T) {
	bad := &model.Block{
		Lines: []model.Line{
			{Spans: []model.Span{{Text: "orphaned", Size: 10}}},
		},
	}
	pages := singlePage(fullWidth(0, "ok", 10), bad)

	_, _, err := Reconstruct(pages, WithStyleTable(testStyleTable()))
	require.Error(t, err)

	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Page)
	assert.Equal(t, 1, malformed.Block)
}

func TestBuildStyleTableFromPages(t *testing.T) {
	// Without an explicit style table the histogram drives classification
	pages := singlePage(
		fullWidth(0, "Chapter", 18),
		fullWidth(30, "The body of the document carries far more text weight than the heading, so eighteen point becomes the single heading size.", 10),
	)

	doc, _, err := Reconstruct(pages)
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Equal(t, model.HeadingLevel1, headings[0].Level)
}
