package reflow

import (
	"log/slog"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/tables"
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets a logger for warning visibility during assembly.
// By default the assembler never logs; warnings are only returned.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithFlowConfig overrides the column flow resolution configuration.
func WithFlowConfig(config layout.FlowConfig) Option {
	return func(a *Assembler) {
		a.flow = layout.NewFlowResolverWithConfig(config)
	}
}

// WithClassifierConfig overrides the style table construction configuration.
func WithClassifierConfig(config layout.ClassifierConfig) Option {
	return func(a *Assembler) {
		a.classifierConfig = config
	}
}

// WithStyleTable supplies an explicit style table, skipping the per-document
// font-size histogram. Useful when the caller already knows the document's
// heading typography.
func WithStyleTable(table layout.StyleTable) Option {
	return func(a *Assembler) {
		t := table
		a.styleTable = &t
	}
}

// WithTableConfig overrides the table reconstruction configuration.
func WithTableConfig(config tables.Config) Option {
	return func(a *Assembler) {
		a.reconstructor = tables.NewReconstructorWithConfig(config)
	}
}

// WithMergeConfig overrides the paragraph merging configuration.
func WithMergeConfig(config layout.MergeConfig) Option {
	return func(a *Assembler) {
		a.merger = layout.NewMergerWithConfig(config)
	}
}

// WithWorkers sets the number of goroutines used for per-page column flow
// resolution. Per-page resolution is a pure function of one page, so the
// result is identical at any worker count. Everything after resolution runs
// on a single, globally ordered stream. Default: 1 (sequential).
func WithWorkers(workers int) Option {
	return func(a *Assembler) {
		a.workers = workers
	}
}
