package document

// TextRun is a contiguous span of text sharing font family, size and weight,
// positioned on a source page. Runs are immutable once extracted.
type TextRun struct {
	Text string  // Extracted text content
	Font string  // Font family name as reported by the source
	Size float64 // Font size in points (synthetic for non-PDF sources)
	Bold bool    // Weight derived from the font name or markup
	X    float64 // Left edge of the run
	Y    float64 // Baseline position; larger means higher on the page
	Page int     // 1-based source page number
}

// Words returns the whitespace-separated word count of the run.
func (r TextRun) Words() int {
	n := 0
	inWord := false
	for _, c := range r.Text {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}

// Page holds the runs read from one source page.
type Page struct {
	Number int
	Width  float64 // 0 when the source has no geometry
	Height float64 // Derived from run positions when the source has no media box
	Runs   []TextRun
}

// PageGap records a page that could not be parsed. The document continues
// with its remaining pages.
type PageGap struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

// Document is one loaded input document: ordered pages of text runs plus the
// declared title and any per-page processing gaps.
type Document struct {
	ID       string // Source identifier, normally the filename without extension
	Filename string
	Title    string // Declared title from the request or metadata; may be empty
	Order    int    // Position in the input request, used for tie-breaking
	Pages    []Page
	Gaps     []PageGap
}

// RunCount returns the total number of runs across all pages.
func (d *Document) RunCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Runs)
	}
	return n
}

// Level identifies a run's structural role. LevelBody marks ordinary text,
// LevelTitle the document title, and positive values heading depth (1 = H1).
type Level int

const (
	LevelBody  Level = 0
	LevelTitle Level = -1
)

// IsHeading reports whether the level marks a structural boundary.
func (l Level) IsHeading() bool {
	return l != LevelBody
}

func (l Level) String() string {
	switch {
	case l == LevelTitle:
		return "Title"
	case l == LevelBody:
		return "Body"
	case l == 1:
		return "H1"
	case l == 2:
		return "H2"
	case l == 3:
		return "H3"
	default:
		return "H" + string(rune('0'+int(l)))
	}
}

// ClassifiedRun pairs a run with its inferred structural role. Headings are
// ephemeral: they exist only between structure extraction and segmentation.
type ClassifiedRun struct {
	Run        TextRun
	Level      Level
	Confidence float64 // Classifier certainty, 0..1; 0 for body runs
}
