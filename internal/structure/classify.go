package structure

import (
	"math"
	"sort"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// Config controls heading classification. Font-size-to-level mapping is
// heuristic and corpus-dependent, so every threshold is tunable.
type Config struct {
	// MaxLevels is the number of recognized heading levels below the title.
	// Distinct sizes beyond this collapse into the lowest recognized level.
	MaxLevels int
	// SizeRatioMin is the minimum size/body-size ratio for a distinct size
	// to be considered a heading size at all.
	SizeRatioMin float64
	// TitleTopFraction is the band at the top of page 1 (as a fraction of
	// page height) where the largest size may be classified as the title.
	// A largest-size run first seen outside this band demotes to H1.
	TitleTopFraction float64
	// SameLineTolerance is the vertical distance within which two runs are
	// considered to share a line.
	SameLineTolerance float64
	// ParagraphGap is the vertical distance that counts as a paragraph
	// break after a run.
	ParagraphGap float64
	// MaxHeadingWords rejects long runs from heading candidacy regardless
	// of size; headings are short.
	MaxHeadingWords int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxLevels:         3,
		SizeRatioMin:      1.08,
		TitleTopFraction:  0.25,
		SameLineTolerance: 2.0,
		ParagraphGap:      18.0,
		MaxHeadingWords:   30,
	}
}

// Classifier assigns a structural role to every run of a document based on
// document-wide font statistics.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.MaxLevels <= 0 {
		cfg.MaxLevels = 3
	}
	if cfg.SizeRatioMin <= 1 {
		cfg.SizeRatioMin = 1.08
	}
	if cfg.TitleTopFraction <= 0 || cfg.TitleTopFraction > 1 {
		cfg.TitleTopFraction = 0.25
	}
	if cfg.SameLineTolerance <= 0 {
		cfg.SameLineTolerance = 2.0
	}
	if cfg.ParagraphGap <= 0 {
		cfg.ParagraphGap = 18.0
	}
	if cfg.MaxHeadingWords <= 0 {
		cfg.MaxHeadingWords = 30
	}
	return &Classifier{cfg: cfg}
}

// Classify returns every run of the document, in reading order, tagged with
// its inferred level. Classification is monotonic in font size: a strictly
// larger size never receives a deeper heading level.
func (c *Classifier) Classify(doc *document.Document) []document.ClassifiedRun {
	if doc.RunCount() == 0 {
		return nil
	}

	bodySize := c.bodySize(doc)
	headingSizes := c.headingSizes(doc, bodySize)

	titleSize := 0.0
	titleRun := c.findTitleRun(doc, headingSizes)
	if titleRun != nil {
		titleSize = headingSizes[0]
	}

	// Map heading sizes (descending) to levels, collapsing the deep tail.
	levelOf := make(map[float64]document.Level, len(headingSizes))
	next := 1
	for _, size := range headingSizes {
		if size == titleSize && titleRun != nil {
			continue
		}
		level := next
		if level > c.cfg.MaxLevels {
			level = c.cfg.MaxLevels
		} else {
			next++
		}
		levelOf[size] = document.Level(level)
	}
	if titleRun != nil {
		// Other runs sharing the title size demote to H1.
		levelOf[titleSize] = document.Level(1)
	}

	var out []document.ClassifiedRun
	for pi := range doc.Pages {
		page := &doc.Pages[pi]
		for ri := range page.Runs {
			run := page.Runs[ri]
			cr := document.ClassifiedRun{Run: run, Level: document.LevelBody}

			if titleRun != nil && &page.Runs[ri] == titleRun {
				cr.Level = document.LevelTitle
				cr.Confidence = 0.95
				out = append(out, cr)
				continue
			}

			level, isHeadingSize := levelOf[sizeKey(run.Size)]
			if isHeadingSize && c.isHeadingShape(page, ri) {
				cr.Level = level
				cr.Confidence = c.headingConfidence(run, bodySize)
			}
			out = append(out, cr)
		}
	}
	return out
}

// bodySize identifies the most frequent font size, the presumed body text
// size. Ties resolve to the smaller size.
func (c *Classifier) bodySize(doc *document.Document) float64 {
	hist := make(map[float64]int)
	for _, p := range doc.Pages {
		for _, r := range p.Runs {
			hist[sizeKey(r.Size)] += r.Words()
		}
	}
	best, bestCount := 0.0, -1
	for size, count := range hist {
		if count > bestCount || (count == bestCount && size < best) {
			best, bestCount = size, count
		}
	}
	return best
}

// headingSizes returns the distinct sizes meaningfully larger than the body
// size, sorted descending.
func (c *Classifier) headingSizes(doc *document.Document, bodySize float64) []float64 {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, p := range doc.Pages {
		for _, r := range p.Runs {
			size := sizeKey(r.Size)
			if seen[size] {
				continue
			}
			seen[size] = true
			if size >= bodySize*c.cfg.SizeRatioMin && size > bodySize {
				sizes = append(sizes, size)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}

// findTitleRun picks the run that represents the document title: the first
// occurrence of the largest heading size, provided it sits near the top of
// page 1. Ties in size break by weight, then earlier position.
func (c *Classifier) findTitleRun(doc *document.Document, headingSizes []float64) *document.TextRun {
	if len(headingSizes) == 0 || len(doc.Pages) == 0 {
		return nil
	}
	largest := headingSizes[0]

	first := doc.Pages[0]
	if first.Number != 1 {
		return nil
	}

	var best *document.TextRun
	for i := range first.Runs {
		r := &first.Runs[i]
		if sizeKey(r.Size) != largest {
			continue
		}
		if best == nil || (r.Bold && !best.Bold) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	if first.Height > 0 && best.Y < first.Height*(1-c.cfg.TitleTopFraction) {
		// Largest size does not appear near the top of page 1; demote.
		return nil
	}
	return best
}

// isHeadingShape applies the layout conjunction that guards against
// incidentally large inline text: a heading-sized run qualifies only when it
// is bold, or followed by a paragraph break, or alone on its line.
func (c *Classifier) isHeadingShape(page *document.Page, idx int) bool {
	run := page.Runs[idx]
	if run.Words() > c.cfg.MaxHeadingWords {
		return false
	}
	if run.Bold {
		return true
	}
	if c.followedByBreak(page, idx) {
		return true
	}
	return c.aloneOnLine(page, idx)
}

func (c *Classifier) followedByBreak(page *document.Page, idx int) bool {
	if idx+1 >= len(page.Runs) {
		return true // Last run on the page.
	}
	next := page.Runs[idx+1]
	return page.Runs[idx].Y-next.Y > c.cfg.ParagraphGap
}

func (c *Classifier) aloneOnLine(page *document.Page, idx int) bool {
	run := page.Runs[idx]
	for i, other := range page.Runs {
		if i == idx {
			continue
		}
		if math.Abs(other.Y-run.Y) <= c.cfg.SameLineTolerance {
			return false
		}
	}
	return true
}

func (c *Classifier) headingConfidence(run document.TextRun, bodySize float64) float64 {
	conf := 0.6
	if run.Bold {
		conf += 0.2
	}
	if bodySize > 0 && run.Size/bodySize >= 1.3 {
		conf += 0.2
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

func sizeKey(size float64) float64 {
	return math.Round(size*10) / 10
}
