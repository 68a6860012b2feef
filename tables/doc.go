// Package tables rebuilds tabular data from spatially scattered text
// fragments.
//
// # The Problem
//
// Extraction tools frequently shatter a visual table into dozens of tiny
// text blocks, one per cell or cell fragment, emitted in an order that
// reflects internal storage rather than the visual grid. Reading those
// blocks as running text produces garbage. This package detects such
// regions and reassembles the grid.
//
// # Detection and Assembly
//
// A candidate region is a run of consecutive short blocks whose left edges
// cluster into a small number of stable vertical bands (the columns)
// across consecutive vertical positions (the rows). Assembly is attempted
// row-major first; when the fragment order does not fill the grid row by
// row, a column-major interpretation is tried, as produced by tables split
// into side-by-side sub-blocks. A final partial column-major row is padded
// with empty cells so no fragment is ever dropped.
//
//	rec := tables.NewReconstructor()
//	if result := rec.Reconstruct(blocks); result != nil {
//	    // result.Table holds the grid; result.Consumed blocks must not
//	    // be re-emitted as paragraph text
//	}
//
// Header rows are recovered from typographic signatures: leading rows
// whose font size, weight, or color differs from the data rows below them.
// When no signal distinguishes a header, the first row is assumed.
//
// When no consistent grid can be found the region is left untouched and
// its blocks flow through paragraph merging unchanged. The reconstructor
// never invents cell content.
package tables
