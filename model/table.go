package model

import "strings"

// TableCell represents a single reconstructed table cell
type TableCell struct {
	Text     string
	ColSpan  int // always >= 1
	IsHeader bool
}

// TableNode represents a reconstructed table. Every row has the same total
// column count once colspans are summed.
type TableNode struct {
	Rows           [][]TableCell
	HeaderRowCount int
}

func (t *TableNode) Kind() NodeKind { return KindTable }

// PlainText returns all cell text, tab-separated within rows
func (t *TableNode) PlainText() string {
	var sb strings.Builder
	for i, row := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(cell.Text)
		}
	}
	return sb.String()
}

// RowCount returns the number of rows
func (t *TableNode) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the total column count of the first row with colspans
// summed, or 0 for an empty table.
func (t *TableNode) ColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return rowWidth(t.Rows[0])
}

// HeaderRows returns the header rows
func (t *TableNode) HeaderRows() [][]TableCell {
	if t.HeaderRowCount > len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:t.HeaderRowCount]
}

// DataRows returns the rows following the header rows
func (t *TableNode) DataRows() [][]TableCell {
	if t.HeaderRowCount >= len(t.Rows) {
		return nil
	}
	return t.Rows[t.HeaderRowCount:]
}

// IsRegular reports whether every row spans the same total column count
func (t *TableNode) IsRegular() bool {
	if len(t.Rows) == 0 {
		return true
	}
	want := rowWidth(t.Rows[0])
	for _, row := range t.Rows[1:] {
		if rowWidth(row) != want {
			return false
		}
	}
	return true
}

func rowWidth(row []TableCell) int {
	width := 0
	for _, cell := range row {
		span := cell.ColSpan
		if span < 1 {
			span = 1
		}
		width += span
	}
	return width
}

// ToCSV converts the table to CSV format
func (t *TableNode) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
