package loader

import "github.com/jaspreetjk20/docrank/internal/document"

// Markup sources (markdown, HTML, DOCX, plain text) carry no geometry, so
// loaders synthesize font sizes and positions that the structure classifier
// treats the same way as real PDF metrics: heading levels get distinct
// descending sizes, paragraphs get a body size with a visible vertical gap.
const (
	synthPageHeight = 792.0
	synthPageWidth  = 612.0
	synthMargin     = 56.0
	synthBodySize   = 11.0
	synthLineStep   = 14.0
	synthParaGap    = 28.0
)

// headingSize maps a markup heading level to a synthetic font size.
func headingSize(level int) float64 {
	switch level {
	case 1:
		return 20
	case 2:
		return 17
	case 3:
		return 15
	case 4:
		return 14
	case 5:
		return 13
	default:
		return 12.5
	}
}

// runBuilder lays synthetic runs onto pages top-down, starting a new page
// when the current one fills up.
type runBuilder struct {
	pages []document.Page
	cur   document.Page
	y     float64
}

func newRunBuilder() *runBuilder {
	b := &runBuilder{}
	b.startPage(1)
	return b
}

func (b *runBuilder) startPage(n int) {
	b.cur = document.Page{
		Number: n,
		Width:  synthPageWidth,
		Height: synthPageHeight,
	}
	b.y = synthPageHeight - synthMargin
}

func (b *runBuilder) advance(step float64) {
	if b.y-step < synthMargin {
		b.pages = append(b.pages, b.cur)
		b.startPage(b.cur.Number + 1)
		return
	}
	b.y -= step
}

// Heading appends a bold run sized for the given markup level.
func (b *runBuilder) Heading(level int, text string) {
	if text == "" {
		return
	}
	b.advance(synthParaGap)
	b.cur.Runs = append(b.cur.Runs, document.TextRun{
		Text: text,
		Font: "Synthetic-Bold",
		Size: headingSize(level),
		Bold: true,
		X:    synthMargin,
		Y:    b.y,
		Page: b.cur.Number,
	})
	b.advance(synthLineStep)
}

// Paragraph appends a body run separated from the previous one by a
// paragraph gap.
func (b *runBuilder) Paragraph(text string) {
	if text == "" {
		return
	}
	b.advance(synthParaGap)
	b.cur.Runs = append(b.cur.Runs, document.TextRun{
		Text: text,
		Font: "Synthetic",
		Size: synthBodySize,
		X:    synthMargin,
		Y:    b.y,
		Page: b.cur.Number,
	})
	b.advance(synthLineStep)
}

// Pages finalizes the layout and returns the non-empty pages.
func (b *runBuilder) Pages() []document.Page {
	pages := b.pages
	if len(b.cur.Runs) > 0 {
		pages = append(pages, b.cur)
	}
	out := pages[:0]
	for _, p := range pages {
		if len(p.Runs) > 0 {
			out = append(out, p)
		}
	}
	return out
}
