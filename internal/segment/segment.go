package segment

import (
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// Config controls section segmentation.
type Config struct {
	// MinWords is the minimum word count for a standalone section; smaller
	// sections merge into their neighbor instead of being emitted.
	MinWords int
	// GapThreshold is the vertical gap (points) that starts a new
	// pseudo-section when a document has no headings at all.
	GapThreshold float64
	// HeadingConfidence scales the classifier's certainty for sections
	// opened by a genuine heading.
	HeadingConfidence float64
	// SynthesizedConfidence is assigned to the implicit section that
	// collects body text appearing before the first heading.
	SynthesizedConfidence float64
	// FallbackConfidence is assigned to gap-based pseudo-sections.
	FallbackConfidence float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinWords:              20,
		GapThreshold:          18.0,
		HeadingConfidence:     0.9,
		SynthesizedConfidence: 0.6,
		FallbackConfidence:    0.4,
	}
}

// builder accumulates one section before emission.
type builder struct {
	title      string
	heading    *document.TextRun
	runs       []document.TextRun
	page       int
	confidence float64
	level      document.Level
}

// Segment groups a document's classified runs into ordered, non-overlapping
// sections. Every heading opens a new section; body runs accumulate into the
// open one. Documents without headings fall back to paragraph-gap
// segmentation with reduced confidence.
func Segment(doc *document.Document, runs []document.ClassifiedRun, cfg Config) []document.Section {
	cfg = clamp(cfg)
	if len(runs) == 0 {
		return nil
	}

	hasHeading := false
	for _, cr := range runs {
		if cr.Level.IsHeading() {
			hasHeading = true
			break
		}
	}

	var builders []*builder
	if hasHeading {
		builders = segmentByHeadings(doc, runs, cfg)
	} else {
		builders = segmentByGaps(doc, runs, cfg)
	}

	builders = mergeSmall(builders, cfg.MinWords)
	return emit(doc, builders)
}

func segmentByHeadings(doc *document.Document, runs []document.ClassifiedRun, cfg Config) []*builder {
	var builders []*builder
	var cur *builder

	for i := range runs {
		cr := runs[i]
		if cr.Level.IsHeading() {
			heading := cr.Run
			cur = &builder{
				title:      strings.TrimSpace(heading.Text),
				heading:    &heading,
				page:       heading.Page,
				confidence: cfg.HeadingConfidence * cr.Confidence,
				level:      cr.Level,
			}
			builders = append(builders, cur)
			continue
		}
		if cur == nil {
			// Body text before the first heading gets a synthesized section
			// titled from the document.
			cur = &builder{
				title:      fallbackTitle(doc),
				page:       cr.Run.Page,
				confidence: cfg.SynthesizedConfidence,
			}
			builders = append(builders, cur)
		}
		cur.runs = append(cur.runs, cr.Run)
	}
	return builders
}

// segmentByGaps handles the uniform-font edge case: split body text at large
// vertical gaps between consecutive runs on the same page.
func segmentByGaps(doc *document.Document, runs []document.ClassifiedRun, cfg Config) []*builder {
	var builders []*builder
	var cur *builder
	var prev *document.TextRun

	for i := range runs {
		run := runs[i].Run
		split := cur == nil
		if prev != nil && prev.Page == run.Page && prev.Y-run.Y > cfg.GapThreshold+runHeight(*prev) {
			split = true
		}
		if split {
			cur = &builder{
				title:      pseudoTitle(run.Text),
				page:       run.Page,
				confidence: cfg.FallbackConfidence,
			}
			builders = append(builders, cur)
		}
		cur.runs = append(cur.runs, run)
		r := run
		prev = &r
	}
	return builders
}

// runHeight approximates the vertical space a run occupies so that normal
// line spacing does not count toward the gap.
func runHeight(r document.TextRun) float64 {
	if r.Size > 0 {
		return r.Size
	}
	return 12
}

// mergeSmall folds sections below the word threshold into the following
// section (or the preceding one at end of document). Merging preserves the
// document text stream: absorbed text stays ahead of the absorbing section's
// heading, which is demoted into the body so that the emitted order matches
// the source order with nothing lost or duplicated.
func mergeSmall(builders []*builder, minWords int) []*builder {
	if len(builders) <= 1 {
		return builders
	}

	var out []*builder
	for i := 0; i < len(builders); i++ {
		b := builders[i]
		if wordCount(b) >= minWords {
			out = append(out, b)
			continue
		}
		if i+1 < len(builders) {
			next := builders[i+1]
			merged := absorbed(b)
			if next.heading != nil {
				merged = append(merged, *next.heading)
				next.heading = nil
			}
			next.runs = append(merged, next.runs...)
			if b.page < next.page {
				next.page = b.page
			}
			continue
		}
		if len(out) > 0 {
			last := out[len(out)-1]
			last.runs = append(last.runs, absorbed(b)...)
			continue
		}
		out = append(out, b) // Sole section in the document.
	}
	return out
}

// absorbed flattens a merged section into plain body runs, heading included.
func absorbed(b *builder) []document.TextRun {
	if b.heading == nil {
		return b.runs
	}
	runs := make([]document.TextRun, 0, len(b.runs)+1)
	runs = append(runs, *b.heading)
	return append(runs, b.runs...)
}

func emit(doc *document.Document, builders []*builder) []document.Section {
	sections := make([]document.Section, 0, len(builders))
	for _, b := range builders {
		sec := document.Section{
			DocID:      doc.ID,
			DocOrder:   doc.Order,
			Title:      b.title,
			Heading:    b.heading,
			Runs:       b.runs,
			Page:       b.page,
			Confidence: b.confidence,
			Level:      b.level,
		}
		sec.Words = len(strings.Fields(sec.Text()))
		sections = append(sections, sec)
	}
	return sections
}

func wordCount(b *builder) int {
	n := 0
	for _, r := range b.runs {
		n += r.Words()
	}
	return n
}

func fallbackTitle(doc *document.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	if doc.ID != "" {
		return doc.ID
	}
	return doc.Filename
}

// pseudoTitle derives a short label for a gap-based pseudo-section from its
// leading words.
func pseudoTitle(text string) string {
	words := strings.Fields(text)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

func clamp(cfg Config) Config {
	d := DefaultConfig()
	if cfg.MinWords <= 0 {
		cfg.MinWords = d.MinWords
	}
	if cfg.GapThreshold <= 0 {
		cfg.GapThreshold = d.GapThreshold
	}
	if cfg.HeadingConfidence <= 0 {
		cfg.HeadingConfidence = d.HeadingConfidence
	}
	if cfg.SynthesizedConfidence <= 0 {
		cfg.SynthesizedConfidence = d.SynthesizedConfidence
	}
	if cfg.FallbackConfidence <= 0 {
		cfg.FallbackConfidence = d.FallbackConfidence
	}
	return cfg
}
