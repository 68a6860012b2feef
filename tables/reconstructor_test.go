package tables

import (
	"strings"
	"testing"

	"github.com/tsawler/reflow/model"
)

// cellBlock creates a short single-line block at a grid position
func cellBlock(x, y float64, text string, size float64, color string) *model.Block {
	bbox := model.NewBBox(x, y, 30, size)
	return &model.Block{
		BBox: bbox,
		Lines: []model.Line{
			{BBox: bbox, Spans: []model.Span{{Text: text, Size: size, Color: color}}},
		},
	}
}

func bodyCell(x, y float64, text string) *model.Block {
	return cellBlock(x, y, text, 10, "")
}

func cellTexts(rows [][]model.TableCell) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, c := range row {
			out[i] = append(out[i], c.Text)
		}
	}
	return out
}

func TestReconstructRowMajorWithHeaderFragment(t *testing.T) {
	// A lone styled header fragment above a 2x4 row-major grid of body
	// cells: one padded header row plus four data rows
	run := []*model.Block{
		cellBlock(10, 0, "Str", 14, "#8b0000"),
		bodyCell(10, 20, "9"),
		bodyCell(60, 20, "12"),
		bodyCell(10, 40, "15"),
		bodyCell(60, 40, "9"),
		bodyCell(10, 60, "12"),
		bodyCell(60, 60, "15"),
		bodyCell(10, 80, "Strength"),
		bodyCell(60, 80, "0"),
	}

	result := NewReconstructor().Reconstruct(run)
	if result == nil {
		t.Fatal("expected a table, got nil")
	}
	if result.Consumed != len(run) {
		t.Errorf("Consumed = %d, want %d", result.Consumed, len(run))
	}

	table := result.Table
	if table.HeaderRowCount != 1 {
		t.Errorf("HeaderRowCount = %d, want 1", table.HeaderRowCount)
	}
	if table.RowCount() != 5 {
		t.Fatalf("RowCount = %d, want 5", table.RowCount())
	}

	// Partial header row widened to span the full table
	header := table.Rows[0]
	if len(header) != 1 || header[0].Text != "Str" || header[0].ColSpan != 2 {
		t.Errorf("header row = %+v, want single Str cell spanning 2", header)
	}
	if !header[0].IsHeader {
		t.Error("header cell not marked")
	}

	want := [][]string{{"9", "12"}, {"15", "9"}, {"12", "15"}, {"Strength", "0"}}
	got := cellTexts(table.DataRows())
	for i, row := range want {
		for j, cell := range row {
			if got[i][j] != cell {
				t.Errorf("data[%d][%d] = %q, want %q", i, j, got[i][j], cell)
			}
		}
	}
	if !table.IsRegular() {
		t.Error("padded table should be regular")
	}
}

func TestReconstructColumnMajorFallback(t *testing.T) {
	// Five items fill the left band top-to-bottom, then the right band:
	// a column-major layout with a padded final cell
	run := []*model.Block{
		bodyCell(10, 0, "Club"),
		bodyCell(10, 20, "Dagger"),
		bodyCell(10, 40, "Spear"),
		bodyCell(60, 0, "Sling"),
		bodyCell(60, 20, "Staff"),
	}

	result := NewReconstructor().Reconstruct(run)
	if result == nil {
		t.Fatal("expected a table, got nil")
	}
	if result.Consumed != 5 {
		t.Errorf("Consumed = %d, want 5", result.Consumed)
	}

	got := cellTexts(result.Table.Rows)
	want := [][]string{{"Club", "Sling"}, {"Dagger", "Staff"}, {"Spear", ""}}
	for i, row := range want {
		for j, cell := range row {
			if got[i][j] != cell {
				t.Errorf("row[%d][%d] = %q, want %q", i, j, got[i][j], cell)
			}
		}
	}
}

func TestReconstructHeaderRowBySignature(t *testing.T) {
	// A full first row in a distinct style marks itself as the header
	run := []*model.Block{
		cellBlock(10, 0, "Weapon", 12, "#8b0000"),
		cellBlock(60, 0, "Cost", 12, "#8b0000"),
		bodyCell(10, 20, "Club"),
		bodyCell(60, 20, "1"),
		bodyCell(10, 40, "Dagger"),
		bodyCell(60, 40, "2"),
	}

	result := NewReconstructor().Reconstruct(run)
	if result == nil {
		t.Fatal("expected a table, got nil")
	}
	if result.Table.HeaderRowCount != 1 {
		t.Errorf("HeaderRowCount = %d, want 1", result.Table.HeaderRowCount)
	}
	if got := cellTexts(result.Table.HeaderRows()); got[0][0] != "Weapon" || got[0][1] != "Cost" {
		t.Errorf("header row = %v", got)
	}
}

func TestReconstructHeaderRowsOverride(t *testing.T) {
	config := DefaultConfig()
	config.HeaderRows = 2

	run := []*model.Block{
		bodyCell(10, 0, "a"),
		bodyCell(60, 0, "b"),
		bodyCell(10, 20, "c"),
		bodyCell(60, 20, "d"),
		bodyCell(10, 40, "e"),
		bodyCell(60, 40, "f"),
	}

	result := NewReconstructorWithConfig(config).Reconstruct(run)
	if result == nil {
		t.Fatal("expected a table, got nil")
	}
	if result.Table.HeaderRowCount != 2 {
		t.Errorf("HeaderRowCount = %d, want 2", result.Table.HeaderRowCount)
	}
}

func TestReconstructStopsAtLongBlock(t *testing.T) {
	paragraph := &model.Block{
		BBox: model.NewBBox(10, 60, 80, 10),
		Lines: []model.Line{{
			BBox:  model.NewBBox(10, 60, 80, 10),
			Spans: []model.Span{{Text: "This running sentence is far too long to be a table fragment.", Size: 10}},
		}},
	}
	run := []*model.Block{
		bodyCell(10, 0, "a"),
		bodyCell(60, 0, "b"),
		bodyCell(10, 20, "c"),
		bodyCell(60, 20, "d"),
		paragraph,
	}

	result := NewReconstructor().Reconstruct(run)
	if result == nil {
		t.Fatal("expected a table, got nil")
	}
	if result.Consumed != 4 {
		t.Errorf("Consumed = %d, want 4 (paragraph left in the stream)", result.Consumed)
	}
	if strings.Contains(result.Table.PlainText(), "running sentence") {
		t.Error("paragraph text leaked into the table")
	}
}

func TestReconstructRejectsIrregularLayouts(t *testing.T) {
	tests := []struct {
		name string
		run  []*model.Block
	}{
		{"too few fragments", []*model.Block{
			bodyCell(10, 0, "a"),
			bodyCell(60, 0, "b"),
		}},
		{"single row", []*model.Block{
			bodyCell(10, 0, "a"),
			bodyCell(40, 0, "b"),
			bodyCell(70, 0, "c"),
			bodyCell(100, 0, "d"),
		}},
		{"single column", []*model.Block{
			bodyCell(10, 0, "a"),
			bodyCell(10, 20, "b"),
			bodyCell(10, 40, "c"),
			bodyCell(10, 60, "d"),
		}},
		{"scattered positions", []*model.Block{
			bodyCell(10, 0, "a"),
			bodyCell(60, 5, "b"),
			bodyCell(25, 22, "c"),
			bodyCell(80, 31, "d"),
			bodyCell(45, 47, "e"),
		}},
		{"empty run", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := NewReconstructor().Reconstruct(tt.run); result != nil {
				t.Errorf("expected nil, got table %v", cellTexts(result.Table.Rows))
			}
		})
	}
}

func TestIsFragment(t *testing.T) {
	rec := NewReconstructor()

	if !rec.IsFragment(bodyCell(10, 0, "Str 9")) {
		t.Error("short block should be a fragment")
	}
	long := &model.Block{
		BBox: model.NewBBox(10, 0, 80, 10),
		Lines: []model.Line{{
			BBox:  model.NewBBox(10, 0, 80, 10),
			Spans: []model.Span{{Text: "five words is one too many", Size: 10}},
		}},
	}
	if rec.IsFragment(long) {
		t.Error("long block should not be a fragment")
	}
	if rec.IsFragment(&model.Block{Type: model.BlockImage}) {
		t.Error("image block should not be a fragment")
	}
}

func TestDominantSignatureTieBreak(t *testing.T) {
	// Two signatures with equal weight: the winner never depends on map
	// iteration order
	a := fragment{sig: signature{sizeBucket: 20, color: "#000000"}}
	b := fragment{sig: signature{sizeBucket: 24, color: "#8b0000", bold: true}}

	for i := 0; i < 20; i++ {
		sig, uniform := dominantSignature([]fragment{a, b})
		if uniform {
			t.Fatal("two distinct signatures reported as uniform")
		}
		if sig != a.sig {
			t.Fatalf("dominant signature = %+v, want %+v", sig, a.sig)
		}
	}
}

func TestBlockSignatureTieBreak(t *testing.T) {
	bbox := model.NewBBox(10, 0, 30, 10)
	block := &model.Block{
		BBox: bbox,
		Lines: []model.Line{{
			BBox: bbox,
			Spans: []model.Span{
				{Text: "abcd", Size: 10},
				{Text: "wxyz", Size: 12, Flags: model.FlagBold},
			},
		}},
	}

	want := signature{sizeBucket: int(10 / signatureSizeTolerance)}
	for i := 0; i < 20; i++ {
		if got := blockSignature(block, signatureSizeTolerance); got != want {
			t.Fatalf("blockSignature = %+v, want %+v", got, want)
		}
	}
}
