package layout

import (
	"sort"
	"sync"

	"github.com/tsawler/reflow/model"
)

// ColumnSide identifies which column stream a block was assigned to
type ColumnSide int

const (
	SideLeft ColumnSide = iota
	SideRight
	SideFull
)

// String returns a string representation of the column side
func (s ColumnSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "full"
	}
}

// FlowConfig holds configuration for column flow resolution
type FlowConfig struct {
	// FullWidthRatio is the fraction of the content width a block must
	// exceed to be treated as a full-width interrupt.
	// Default: 0.65
	FullWidthRatio float64

	// StraddleTolerance is the distance (in points) a block may cross the
	// column boundary before it is considered ambiguous. Ambiguous blocks
	// are treated as full-width.
	// Default: 6 points
	StraddleTolerance float64
}

// DefaultFlowConfig returns sensible default configuration
func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		FullWidthRatio:    0.65,
		StraddleTolerance: 6.0,
	}
}

// FlowResolver linearizes the blocks of a page into reading order for a
// two-column print layout with occasional full-width interrupts. It is a
// pure function of a single page's blocks; pages may be resolved
// independently and in parallel.
type FlowResolver struct {
	config FlowConfig
}

// NewFlowResolver creates a flow resolver with default configuration
func NewFlowResolver() *FlowResolver {
	return &FlowResolver{
		config: DefaultFlowConfig(),
	}
}

// NewFlowResolverWithConfig creates a flow resolver with custom configuration
func NewFlowResolverWithConfig(config FlowConfig) *FlowResolver {
	return &FlowResolver{
		config: config,
	}
}

// Resolve returns the page's blocks in reading order: between consecutive
// full-width interrupts, every left-column block in that vertical range is
// emitted before every right-column block (the two columns are never
// interleaved at finer granularity, matching print reading order).
func (r *FlowResolver) Resolve(page *model.Page) []*model.Block {
	if page == nil || len(page.Blocks) == 0 {
		return nil
	}

	left, right, full := r.partition(page)

	sortByTop(left)
	sortByTop(right)
	sortByTop(full)

	// No interrupts: the whole page is one segment
	if len(full) == 0 {
		return append(left, right...)
	}

	ordered := make([]*model.Block, 0, len(page.Blocks))
	li, ri := 0, 0

	for _, interrupt := range full {
		breakY := interrupt.BBox.Top()

		// Drain both columns above the interrupt, left entirely first
		for li < len(left) && left[li].BBox.Top() < breakY {
			ordered = append(ordered, left[li])
			li++
		}
		for ri < len(right) && right[ri].BBox.Top() < breakY {
			ordered = append(ordered, right[ri])
			ri++
		}

		ordered = append(ordered, interrupt)
	}

	// Final segment below the last interrupt
	ordered = append(ordered, left[li:]...)
	ordered = append(ordered, right[ri:]...)

	return ordered
}

// ResolveLinear is the degraded mode for pages whose column layout cannot
// be resolved: every block is treated as full-width and ordered by
// vertical position.
func (r *FlowResolver) ResolveLinear(page *model.Page) []*model.Block {
	if page == nil || len(page.Blocks) == 0 {
		return nil
	}

	ordered := make([]*model.Block, len(page.Blocks))
	copy(ordered, page.Blocks)
	sortByTop(ordered)
	return ordered
}

// Classify reports which column stream a single block belongs to
func (r *FlowResolver) Classify(page *model.Page, block *model.Block) ColumnSide {
	minX, maxX := contentBounds(page)
	return r.classify(block, minX, maxX)
}

// partition splits a page's blocks into left, right, and full-width streams
func (r *FlowResolver) partition(page *model.Page) (left, right, full []*model.Block) {
	minX, maxX := contentBounds(page)

	for _, b := range page.Blocks {
		switch r.classify(b, minX, maxX) {
		case SideLeft:
			left = append(left, b)
		case SideRight:
			right = append(right, b)
		default:
			full = append(full, b)
		}
	}
	return left, right, full
}

func (r *FlowResolver) classify(b *model.Block, minX, maxX float64) ColumnSide {
	contentWidth := maxX - minX
	if contentWidth <= 0 {
		return SideFull
	}

	if b.BBox.Width >= contentWidth*r.config.FullWidthRatio {
		return SideFull
	}

	boundary := minX + contentWidth/2
	tol := r.config.StraddleTolerance

	// Straddling the column boundary on both sides is ambiguous; default
	// to full-width rather than guessing a column.
	if b.BBox.Left() < boundary-tol && b.BBox.Right() > boundary+tol {
		return SideFull
	}

	if b.BBox.Center().X < boundary {
		return SideLeft
	}
	return SideRight
}

// contentBounds returns the horizontal extent of the page's content
func contentBounds(page *model.Page) (minX, maxX float64) {
	first := true
	for _, b := range page.Blocks {
		if first {
			minX, maxX = b.BBox.Left(), b.BBox.Right()
			first = false
			continue
		}
		if b.BBox.Left() < minX {
			minX = b.BBox.Left()
		}
		if b.BBox.Right() > maxX {
			maxX = b.BBox.Right()
		}
	}
	if first {
		return 0, page.Width
	}
	return minX, maxX
}

// sortByTop orders blocks top to bottom, breaking ties left to right.
// The sort is stable so equal positions keep extractor order.
func sortByTop(blocks []*model.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox.Top() != blocks[j].BBox.Top() {
			return blocks[i].BBox.Top() < blocks[j].BBox.Top()
		}
		return blocks[i].BBox.Left() < blocks[j].BBox.Left()
	})
}

// ResolvePages resolves every page and returns one ordered block sequence
// per page, in page order.
func (r *FlowResolver) ResolvePages(pages []*model.Page) [][]*model.Block {
	resolved := make([][]*model.Block, len(pages))
	for i, p := range pages {
		resolved[i] = r.Resolve(p)
	}
	return resolved
}

// ResolvePagesParallel resolves pages across the given number of worker
// goroutines. Each page is a pure, independent computation, so the result
// is identical to ResolvePages.
func (r *FlowResolver) ResolvePagesParallel(pages []*model.Page, workers int) [][]*model.Block {
	if workers <= 1 || len(pages) <= 1 {
		return r.ResolvePages(pages)
	}

	resolved := make([][]*model.Block, len(pages))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				resolved[i] = r.Resolve(pages[i])
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return resolved
}
