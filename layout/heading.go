package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/reflow/model"
)

// StyleThreshold maps a minimum font size (and optionally a color) to a
// heading level. Thresholds are ordered by descending MinSize.
type StyleThreshold struct {
	MinSize float64
	Color   string // "#rrggbb"; empty matches any color
	Level   model.HeadingLevel
}

// StyleTable is the per-document classification table derived from the
// document's own font-size histogram: the most common size is body text,
// and strictly larger sizes map, in descending order, to H1 through H4.
// The table is an explicit configuration value, so the classifier works
// across different source documents without code changes.
type StyleTable struct {
	// BodySize is the dominant (body text) font size
	BodySize float64

	// Thresholds ordered by descending MinSize
	Thresholds []StyleThreshold

	// SizeTolerance absorbs sub-point size jitter between spans that share
	// a logical style. Default: 0.5 points
	SizeTolerance float64
}

// ClassifierConfig holds configuration for style table construction
type ClassifierConfig struct {
	// SizeTolerance is the histogram bucket width in points
	// Default: 0.5
	SizeTolerance float64

	// MaxLevels caps how many distinct heading sizes are mapped (H1-H4)
	// Default: 4
	MaxLevels int
}

// DefaultClassifierConfig returns sensible default configuration
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SizeTolerance: 0.5,
		MaxLevels:     4,
	}
}

// BuildStyleTable derives a style table from the document's pages using
// default configuration.
func BuildStyleTable(pages []*model.Page) StyleTable {
	return BuildStyleTableWithConfig(pages, DefaultClassifierConfig())
}

// BuildStyleTableWithConfig derives a style table from the document's own
// font-size histogram. Sizes are weighted by text length so that a few
// large display characters cannot outvote the running text.
func BuildStyleTableWithConfig(pages []*model.Page, config ClassifierConfig) StyleTable {
	tol := config.SizeTolerance
	if tol <= 0 {
		tol = 0.5
	}
	maxLevels := config.MaxLevels
	if maxLevels <= 0 || maxLevels > 4 {
		maxLevels = 4
	}

	type bucketStats struct {
		weight int
		size   float64
		colors map[string]int
	}
	buckets := make(map[int]*bucketStats)

	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, block := range page.Blocks {
			if !block.IsText() {
				continue
			}
			for _, span := range block.Spans() {
				text := strings.TrimSpace(span.Text)
				if text == "" {
					continue
				}
				key := sizeBucket(span.Size, tol)
				stats := buckets[key]
				if stats == nil {
					stats = &bucketStats{size: span.Size, colors: make(map[string]int)}
					buckets[key] = stats
				}
				stats.weight += len(text)
				stats.colors[strings.ToLower(span.Color)] += len(text)
			}
		}
	}

	if len(buckets) == 0 {
		return StyleTable{BodySize: 12.0, SizeTolerance: tol}
	}

	// Body text is the heaviest bucket
	var bodyKey int
	maxWeight := -1
	for key, stats := range buckets {
		if stats.weight > maxWeight || (stats.weight == maxWeight && key < bodyKey) {
			maxWeight = stats.weight
			bodyKey = key
		}
	}
	bodySize := buckets[bodyKey].size

	// Sizes strictly larger than body text become heading levels,
	// largest first
	type candidate struct {
		size  float64
		color string
	}
	var candidates []candidate
	for key, stats := range buckets {
		if key <= bodyKey {
			continue
		}
		candidates = append(candidates, candidate{
			size:  stats.size,
			color: dominantColor(stats.colors),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].size > candidates[j].size
	})

	table := StyleTable{
		BodySize:      bodySize,
		SizeTolerance: tol,
	}
	for i, c := range candidates {
		if i >= maxLevels {
			break
		}
		table.Thresholds = append(table.Thresholds, StyleThreshold{
			MinSize: c.size,
			Color:   c.color,
			Level:   model.HeadingLevel(i + 1),
		})
	}

	return table
}

func sizeBucket(size, tolerance float64) int {
	return int(size / tolerance)
}

func dominantColor(colors map[string]int) string {
	best := ""
	bestWeight := -1
	for color, weight := range colors {
		if weight > bestWeight || (weight == bestWeight && color < best) {
			best = color
			bestWeight = weight
		}
	}
	return best
}

// Classifier maps a block's typographic signature to a heading level.
// Classification is a pure lookup against the style table: no text content
// is ever matched. A signature with no table entry degrades to body text.
type Classifier struct {
	table StyleTable
}

// NewClassifier creates a classifier over the given style table
func NewClassifier(table StyleTable) *Classifier {
	if table.SizeTolerance <= 0 {
		table.SizeTolerance = 0.5
	}
	return &Classifier{table: table}
}

// Table returns the classifier's style table
func (c *Classifier) Table() StyleTable {
	return c.table
}

// Classify returns the heading level of a block, or false when the block is
// body text. A block classifies as a heading only when every span in it
// shares the heading signature; mixed-signature blocks are body text.
func (c *Classifier) Classify(block *model.Block) (model.HeadingLevel, bool) {
	if block == nil || !block.IsText() {
		return model.HeadingLevelUnknown, false
	}

	size, color, uniform := blockSignature(block, c.table.SizeTolerance)
	if !uniform {
		return model.HeadingLevelUnknown, false
	}

	return c.classifySignature(size, color)
}

// ClassifySpan classifies a single span's signature. Used by table
// reconstruction to distinguish header-text cells from data cells.
func (c *Classifier) ClassifySpan(span model.Span) (model.HeadingLevel, bool) {
	return c.classifySignature(span.Size, strings.ToLower(span.Color))
}

func (c *Classifier) classifySignature(size float64, color string) (model.HeadingLevel, bool) {
	// Body-sized text is never a heading
	if size <= c.table.BodySize+c.table.SizeTolerance {
		return model.HeadingLevelUnknown, false
	}

	for _, t := range c.table.Thresholds {
		if size < t.MinSize-c.table.SizeTolerance {
			continue
		}
		if t.Color != "" && color != t.Color {
			continue
		}
		return t.Level, true
	}

	// Unrecognized typography degrades to body text
	return model.HeadingLevelUnknown, false
}

// blockSignature returns the block's dominant span signature (majority span
// by text length) and whether every span in the block shares it.
func blockSignature(block *model.Block, tolerance float64) (size float64, color string, uniform bool) {
	type sig struct {
		bucket int
		color  string
	}
	weights := make(map[sig]int)
	sizes := make(map[sig]float64)
	total := 0

	for _, span := range block.Spans() {
		text := strings.TrimSpace(span.Text)
		if text == "" {
			continue
		}
		s := sig{bucket: sizeBucket(span.Size, tolerance), color: strings.ToLower(span.Color)}
		weights[s] += len(text)
		sizes[s] = span.Size
		total += len(text)
	}

	if total == 0 {
		return 0, "", false
	}

	less := func(a, b sig) bool {
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		return a.color < b.color
	}

	var dominant sig
	bestWeight := -1
	for s, w := range weights {
		if w > bestWeight || (w == bestWeight && less(s, dominant)) {
			dominant = s
			bestWeight = w
		}
	}

	return sizes[dominant], dominant.color, len(weights) == 1
}
