package loader

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFLoader extracts styled text runs from PDF content streams.
type PDFLoader struct{}

// Fragment grouping tolerances, in points. A fragment continues the current
// run only when it keeps the same font and size and stays on the same line.
const (
	sameLineTolerance = 2.0
	sameRunGap        = 5.0
)

func (l *PDFLoader) Load(r io.Reader, filename string) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docrank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &document.Document{
		ID:       docID(filename),
		Filename: filename,
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Gaps = append(doc.Gaps, document.PageGap{Page: i, Reason: "missing page object"})
			continue
		}
		runs, err := pageRuns(page, i)
		if err != nil {
			doc.Gaps = append(doc.Gaps, document.PageGap{Page: i, Reason: err.Error()})
			continue
		}
		if len(runs) == 0 {
			continue
		}
		height := 0.0
		for _, run := range runs {
			if run.Y > height {
				height = run.Y
			}
		}
		doc.Pages = append(doc.Pages, document.Page{
			Number: i,
			Height: height,
			Runs:   runs,
		})
	}

	return doc, nil
}

// pageRuns extracts and groups one page's text fragments. The pdf library
// panics on malformed content streams, so extraction is fenced with recover
// and a bad page becomes a recorded gap instead of a dead document.
func pageRuns(page pdflib.Page, pageNum int) (runs []document.TextRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			runs = nil
			err = fmt.Errorf("content stream: %v", r)
		}
	}()

	content := page.Content()
	frags := content.Text
	if len(frags) == 0 {
		return nil, nil
	}

	// Reading order: top of page first, then left to right.
	sorted := make([]pdflib.Text, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := roundTenth(sorted[i].Y), roundTenth(sorted[j].Y)
		if yi != yj {
			return yi > yj
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		cur     strings.Builder
		curFont string
		curSize float64
		curX    float64
		curY    float64
		endX    float64
		started bool
	)

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			runs = append(runs, document.TextRun{
				Text: text,
				Font: curFont,
				Size: curSize,
				Bold: boldFont(curFont),
				X:    curX,
				Y:    curY,
				Page: pageNum,
			})
		}
		cur.Reset()
		started = false
	}

	for _, frag := range sorted {
		if strings.TrimSpace(frag.S) == "" {
			if started {
				cur.WriteString(frag.S)
				endX = frag.X + frag.W
			}
			continue
		}
		size := roundTenth(frag.FontSize)

		continues := started &&
			frag.Font == curFont &&
			size == curSize &&
			math.Abs(frag.Y-curY) <= sameLineTolerance &&
			frag.X-endX <= sameRunGap

		if started && !continues {
			flush()
		}
		if !started {
			curFont = frag.Font
			curSize = size
			curX = frag.X
			curY = frag.Y
			started = true
		} else if frag.X-endX > 0.3*size {
			// Word gap within the run.
			cur.WriteString(" ")
		}
		cur.WriteString(frag.S)
		endX = frag.X + frag.W
	}
	flush()

	return runs, nil
}

// boldFont reports whether a font name indicates bold weight.
func boldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range []string{"bold", "heavy", "black", "demi"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
