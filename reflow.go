// Package reflow reconstructs structured documents from layout-aware page
// descriptions: flat lists of positioned text blocks with typographic
// attributes but no structural markup.
//
// Basic usage:
//
//	doc, warnings, err := reflow.Reconstruct(pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", reflow.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := reflow.Reconstruct(pages,
//	    reflow.WithWorkers(4),
//	    reflow.WithLogger(slog.Default()),
//	)
//
// For advanced use cases, the lower-level layout and tables packages are
// also available.
package reflow

import (
	"github.com/tsawler/reflow/model"
)

// Reconstruct runs the full reconstruction pipeline over the given pages
// and returns the assembled document.
//
// Example:
//
//	doc, warnings, err := reflow.Reconstruct(pages)
func Reconstruct(pages []*model.Page, opts ...Option) (*model.Document, []Warning, error) {
	return NewAssembler(opts...).Assemble(pages)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := reflow.Must(reflow.NewAssembler().Assemble(pages))
func Must[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
