package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// Config holds reconstructor configuration
type Config struct {
	// Minimum and maximum number of column bands for a valid table
	MinColumns int
	MaxColumns int

	// Minimum number of rows (including header rows)
	MinRows int

	// Tolerance for clustering fragment positions into bands (points)
	AlignmentTolerance float64

	// MaxFragmentWords is the maximum word count for a block to qualify
	// as a table fragment
	MaxFragmentWords int

	// HeaderRows overrides header-row detection when >= 0.
	// Default: -1 (detect from typographic signatures, falling back to 1)
	HeaderRows int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinColumns:         2,
		MaxColumns:         10,
		MinRows:            2,
		AlignmentTolerance: 3.0,
		MaxFragmentWords:   4,
		HeaderRows:         -1,
	}
}

// Result is a successful reconstruction: the rebuilt table and the number
// of blocks consumed from the front of the candidate run. Consumed blocks
// must be removed from the document stream so their text is never emitted
// a second time as paragraph content.
type Result struct {
	Table    *model.TableNode
	Consumed int
}

// Reconstructor rebuilds tables from spatially scattered text fragments.
// A candidate region is a run of consecutive short blocks whose x-positions
// cluster into a small number of stable bands (the columns) across
// consecutive y-positions (the rows).
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		config: DefaultConfig(),
	}
}

// NewReconstructorWithConfig creates a reconstructor with custom configuration
func NewReconstructorWithConfig(config Config) *Reconstructor {
	return &Reconstructor{
		config: config,
	}
}

// IsFragment reports whether a block is short enough to be a table fragment
func (r *Reconstructor) IsFragment(block *model.Block) bool {
	if block == nil || !block.IsText() || len(block.Lines) > 2 {
		return false
	}
	return len(strings.Fields(block.Text())) <= r.config.MaxFragmentWords
}

// fragment is one scattered piece of a candidate table
type fragment struct {
	block *model.Block
	text  string
	sig   signature
	x     float64 // left edge
	y     float64 // vertical center
	col   int
	row   int
}

// signatureSizeTolerance is the font-size bucket width used when comparing
// fragment typography
const signatureSizeTolerance = 0.5

// signature is the typographic identity of a fragment, used to separate
// header rows from data rows
type signature struct {
	sizeBucket int
	color      string
	bold       bool
}

// Reconstruct attempts to rebuild a table from the longest fragment prefix
// of run. It returns nil when no consistent grid can be found, leaving the
// blocks for paragraph merging; it never fabricates cells beyond padding a
// final partial column-major row.
func (r *Reconstructor) Reconstruct(run []*model.Block) *Result {
	frags := r.collectFragments(run)
	if len(frags) < r.config.MinColumns*r.config.MinRows {
		return nil
	}

	bands := r.columnBands(frags)
	if len(bands) < r.config.MinColumns || len(bands) > r.config.MaxColumns {
		return nil
	}
	rows := r.rowBands(frags)
	if len(rows) < r.config.MinRows {
		return nil
	}

	for i := range frags {
		frags[i].col = nearestBand(bands, frags[i].x)
		frags[i].row = nearestBand(rows, frags[i].y)
	}

	table := r.assembleRowMajor(frags, len(bands), len(rows))
	if table == nil {
		table = r.assembleColumnMajor(frags, len(bands))
	}
	if table == nil || len(table.Rows) < r.config.MinRows {
		return nil
	}

	return &Result{
		Table:    table,
		Consumed: len(frags),
	}
}

// collectFragments takes the longest prefix of run that qualifies as
// table fragments
func (r *Reconstructor) collectFragments(run []*model.Block) []fragment {
	var frags []fragment
	for _, block := range run {
		if !r.IsFragment(block) {
			break
		}
		frags = append(frags, fragment{
			block: block,
			text:  block.Text(),
			sig:   blockSignature(block, signatureSizeTolerance),
			x:     block.BBox.Left(),
			y:     block.BBox.Center().Y,
		})
	}
	return frags
}

// columnBands clusters fragment left edges into column bands
func (r *Reconstructor) columnBands(frags []fragment) []float64 {
	values := make([]float64, len(frags))
	for i, f := range frags {
		values[i] = f.x
	}
	sort.Float64s(values)
	return clusterValues(values, r.config.AlignmentTolerance)
}

// rowBands clusters fragment vertical centers into row bands
func (r *Reconstructor) rowBands(frags []fragment) []float64 {
	values := make([]float64, len(frags))
	for i, f := range frags {
		values[i] = f.y
	}
	sort.Float64s(values)
	return clusterValues(values, r.config.AlignmentTolerance)
}

// clusterValues merges nearby sorted values within tolerance, keeping the
// running average of each cluster as its center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	count := 1

	for _, v := range values[1:] {
		last := clustered[len(clustered)-1]
		if v-last > tolerance {
			clustered = append(clustered, v)
			count = 1
		} else {
			clustered[len(clustered)-1] = (last*float64(count) + v) / float64(count+1)
			count++
		}
	}

	return clustered
}

// nearestBand returns the index of the band closest to v
func nearestBand(bands []float64, v float64) int {
	best := 0
	bestDist := math.Abs(bands[0] - v)
	for i, b := range bands[1:] {
		if d := math.Abs(b - v); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

// assembleRowMajor places fragments by their (row, col) grid position.
// Every row must fill all columns; the only exception is a leading run of
// short rows whose typographic signature differs from the data rows, which
// become header rows with their final cell widened to fill the table.
// Any other mismatch or cell collision returns nil so that column-major
// assembly can be attempted.
func (r *Reconstructor) assembleRowMajor(frags []fragment, cols, rowCount int) *model.TableNode {
	grid := make([][]*fragment, rowCount)
	for i := range grid {
		grid[i] = make([]*fragment, cols)
	}

	for i := range frags {
		f := &frags[i]
		if grid[f.row][f.col] != nil {
			return nil // cell collision: not a row-major grid
		}
		grid[f.row][f.col] = f
	}

	var rows [][]model.TableCell
	headerDone := false
	for ri, gridRow := range grid {
		filled := 0
		for _, f := range gridRow {
			if f != nil {
				filled++
			}
		}
		if filled == 0 {
			continue
		}

		if filled < cols {
			// A short row is tolerable only as a leading header row with
			// a signature distinct from the rows below it
			if headerDone || ri > 1 || !isDistinctHeaderRow(grid, ri) {
				return nil
			}
			rows = append(rows, paddedRow(gridRow, cols))
			continue
		}

		headerDone = true
		row := make([]model.TableCell, 0, cols)
		for _, f := range gridRow {
			row = append(row, model.TableCell{Text: f.text, ColSpan: 1})
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil
	}

	return r.finalize(rows, grid)
}

// paddedRow renders a partial header row, widening the last cell so the
// row spans the full table width
func paddedRow(gridRow []*fragment, cols int) []model.TableCell {
	var row []model.TableCell
	for _, f := range gridRow {
		if f != nil {
			row = append(row, model.TableCell{Text: f.text, ColSpan: 1})
		}
	}
	missing := cols - len(row)
	if missing > 0 && len(row) > 0 {
		row[len(row)-1].ColSpan += missing
	}
	return row
}

// assembleColumnMajor rebuilds a grid whose fill order runs down column 1
// before column 2, as happens when a table is split into side-by-side
// sub-blocks. Items [0..ceil(N/k)) belong to column 1, and the bottom of
// the final column is padded with empty cells, never dropping data.
func (r *Reconstructor) assembleColumnMajor(frags []fragment, cols int) *model.TableNode {
	n := len(frags)
	rowCount := (n + cols - 1) / cols
	if rowCount < r.config.MinRows {
		return nil
	}

	grid := make([][]*fragment, rowCount)
	for i := range grid {
		grid[i] = make([]*fragment, cols)
	}

	for i := range frags {
		f := &frags[i]
		col := i / rowCount
		row := i % rowCount

		// The document order must actually fill the bands column by
		// column, otherwise this is not a column-major layout.
		if f.col != col {
			return nil
		}
		grid[row][col] = f
	}

	rows := make([][]model.TableCell, rowCount)
	for ri, gridRow := range grid {
		row := make([]model.TableCell, cols)
		for ci, f := range gridRow {
			if f != nil {
				row[ci] = model.TableCell{Text: f.text, ColSpan: 1}
			} else {
				row[ci] = model.TableCell{ColSpan: 1}
			}
		}
		rows[ri] = row
	}

	return r.finalize(rows, grid)
}

// finalize sets header rows and marks header cells
func (r *Reconstructor) finalize(rows [][]model.TableCell, grid [][]*fragment) *model.TableNode {
	headerRows := r.config.HeaderRows
	if headerRows < 0 {
		headerRows = detectHeaderRows(grid)
	}
	if headerRows > len(rows) {
		headerRows = len(rows)
	}

	for ri := 0; ri < headerRows; ri++ {
		for ci := range rows[ri] {
			rows[ri][ci].IsHeader = true
		}
	}

	return &model.TableNode{
		Rows:           rows,
		HeaderRowCount: headerRows,
	}
}

// detectHeaderRows reports how many of the first rows (1 or 2) carry a
// typographic signature distinct from the following data rows. When no
// distinction exists, one header row is assumed.
func detectHeaderRows(grid [][]*fragment) int {
	if len(grid) < 2 {
		return 1
	}

	var dataFrags []fragment
	for _, row := range grid[2:] {
		for _, f := range row {
			if f != nil {
				dataFrags = append(dataFrags, *f)
			}
		}
	}
	for _, f := range grid[1] {
		if f != nil {
			dataFrags = append(dataFrags, *f)
		}
	}

	dataSig, uniform := dominantSignature(dataFrags)
	if !uniform {
		return 1
	}

	if !rowHasDistinctSignature(grid[0], dataSig) {
		return 1
	}

	// Check whether the second row is also a header row: distinct from
	// the rows below it but matching the first row's style
	var below []fragment
	for _, row := range grid[2:] {
		for _, f := range row {
			if f != nil {
				below = append(below, *f)
			}
		}
	}
	belowSig, belowUniform := dominantSignature(below)
	if belowUniform && rowHasDistinctSignature(grid[1], belowSig) {
		return 2
	}

	return 1
}

// dominantSignature returns the most common signature among fragments and
// whether all fragments share it
func dominantSignature(frags []fragment) (signature, bool) {
	if len(frags) == 0 {
		return signature{}, false
	}

	counts := make(map[signature]int)
	for _, f := range frags {
		counts[f.sig]++
	}

	var dominant signature
	best := -1
	for sig, n := range counts {
		if n > best || (n == best && signatureLess(sig, dominant)) {
			dominant = sig
			best = n
		}
	}
	return dominant, len(counts) == 1
}

// signatureLess orders signatures so that an exact weight tie resolves the
// same way on every run
func signatureLess(a, b signature) bool {
	if a.sizeBucket != b.sizeBucket {
		return a.sizeBucket < b.sizeBucket
	}
	if a.color != b.color {
		return a.color < b.color
	}
	return !a.bold && b.bold
}

// isDistinctHeaderRow reports whether row ri carries a uniform typographic
// signature that differs from the dominant signature of every row below it
func isDistinctHeaderRow(grid [][]*fragment, ri int) bool {
	var below []fragment
	for _, row := range grid[ri+1:] {
		for _, f := range row {
			if f != nil {
				below = append(below, *f)
			}
		}
	}
	if len(below) == 0 {
		return false
	}
	dataSig, _ := dominantSignature(below)
	return rowHasDistinctSignature(grid[ri], dataSig)
}

// rowHasDistinctSignature reports whether every present cell in the row
// shares one signature that differs from sig
func rowHasDistinctSignature(gridRow []*fragment, sig signature) bool {
	var rowFrags []fragment
	for _, f := range gridRow {
		if f != nil {
			rowFrags = append(rowFrags, *f)
		}
	}
	rowSig, uniform := dominantSignature(rowFrags)
	return uniform && rowSig != sig
}

// blockSignature derives a fragment's typographic signature from its
// majority span (by text length). The size bucket width matches the
// alignment tolerance so sub-point jitter never splits a signature.
func blockSignature(block *model.Block, tolerance float64) signature {
	if tolerance <= 0 {
		tolerance = 0.5
	}
	weights := make(map[signature]int)
	for _, span := range block.Spans() {
		text := strings.TrimSpace(span.Text)
		if text == "" {
			continue
		}
		sig := signature{
			sizeBucket: int(span.Size / tolerance),
			color:      strings.ToLower(span.Color),
			bold:       span.Bold(),
		}
		weights[sig] += len(text)
	}

	var dominant signature
	best := -1
	for sig, n := range weights {
		if n > best || (n == best && signatureLess(sig, dominant)) {
			dominant = sig
			best = n
		}
	}
	return dominant
}
