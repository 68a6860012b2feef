package reflow

import "fmt"

// MalformedInputError reports a block that cannot be processed at all,
// such as a text block with an empty bounding box. Assembly fails loudly
// rather than silently dropping page content.
type MalformedInputError struct {
	// Page is the 1-indexed page number of the offending block
	Page int

	// Block is the 0-indexed position of the block within the page
	Block int
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: page %d, block %d: text block has an empty bounding box", e.Page, e.Block)
}
