package structure

import (
	"strings"
	"testing"

	"github.com/jaspreetjk20/docrank/internal/document"
)

func run(text string, size, y float64) document.TextRun {
	return document.TextRun{Text: text, Font: "Helvetica", Size: size, X: 56, Y: y, Page: 1}
}

func boldRun(text string, size, y float64) document.TextRun {
	r := run(text, size, y)
	r.Font = "Helvetica-Bold"
	r.Bold = true
	return r
}

func onePageDoc(height float64, runs ...document.TextRun) *document.Document {
	return &document.Document{
		ID:       "doc",
		Filename: "doc.pdf",
		Pages: []document.Page{
			{Number: 1, Width: 612, Height: height, Runs: runs},
		},
	}
}

var body = strings.Repeat("plain body text with several ordinary words ", 3)

func TestClassify_LevelsFollowFontSize(t *testing.T) {
	doc := onePageDoc(792,
		run("Annual Report", 20, 720),
		run("Introduction", 16, 680),
		run(body, 11, 650),
		run(body, 11, 630),
		run("Scope", 13, 600),
		run(body, 11, 580),
	)

	c := NewClassifier(DefaultConfig())
	out := c.Classify(doc)
	if len(out) != 6 {
		t.Fatalf("expected 6 classified runs, got %d", len(out))
	}

	want := []document.Level{
		document.LevelTitle,
		1,
		document.LevelBody,
		document.LevelBody,
		2,
		document.LevelBody,
	}
	for i, w := range want {
		if out[i].Level != w {
			t.Errorf("run %d: expected level %v, got %v", i, w, out[i].Level)
		}
	}
	if out[0].Confidence != 0.95 {
		t.Errorf("title confidence: expected 0.95, got %v", out[0].Confidence)
	}
	if out[2].Confidence != 0 {
		t.Errorf("body confidence: expected 0, got %v", out[2].Confidence)
	}
}

func TestClassify_UniformFontProducesNoHeadings(t *testing.T) {
	doc := onePageDoc(792,
		run(body, 11, 700),
		run(body, 11, 650),
		run(body, 11, 600),
	)

	out := NewClassifier(DefaultConfig()).Classify(doc)
	for i, cr := range out {
		if cr.Level.IsHeading() {
			t.Errorf("run %d: expected body, got %v", i, cr.Level)
		}
	}
}

func TestClassify_DeepSizesCollapseIntoMaxLevel(t *testing.T) {
	// Largest size sits low on page 1, so no title is assigned and all
	// five distinct sizes map to heading levels.
	doc := onePageDoc(792,
		run(body, 11, 750),
		run(body, 11, 730),
		run("Alpha", 24, 100),
		run("Beta", 18, 600),
		run("Gamma", 16, 560),
		run("Delta", 14, 520),
		run("Epsilon", 13, 480),
	)

	out := NewClassifier(DefaultConfig()).Classify(doc)

	want := map[string]document.Level{
		"Alpha":   1,
		"Beta":    2,
		"Gamma":   3,
		"Delta":   3,
		"Epsilon": 3,
	}
	for _, cr := range out {
		w, ok := want[cr.Run.Text]
		if !ok {
			continue
		}
		if cr.Level != w {
			t.Errorf("%s: expected level %v, got %v", cr.Run.Text, w, cr.Level)
		}
	}
}

func TestClassify_TitleDemotesWhenNotNearTop(t *testing.T) {
	doc := onePageDoc(792,
		run(body, 11, 750),
		run(body, 11, 700),
		run("Buried Banner", 20, 100),
	)

	out := NewClassifier(DefaultConfig()).Classify(doc)
	for _, cr := range out {
		if cr.Level == document.LevelTitle {
			t.Fatalf("expected no title, got one on %q", cr.Run.Text)
		}
		if cr.Run.Text == "Buried Banner" && cr.Level != 1 {
			t.Errorf("demoted banner: expected H1, got %v", cr.Level)
		}
	}
}

func TestClassify_BoldWinsTitleTie(t *testing.T) {
	doc := onePageDoc(792,
		run("Plain Banner", 20, 750),
		boldRun("Bold Banner", 20, 700),
		run(body, 11, 650),
		run(body, 11, 630),
	)

	out := NewClassifier(DefaultConfig()).Classify(doc)
	for _, cr := range out {
		switch cr.Run.Text {
		case "Bold Banner":
			if cr.Level != document.LevelTitle {
				t.Errorf("bold banner: expected title, got %v", cr.Level)
			}
		case "Plain Banner":
			if cr.Level != 1 {
				t.Errorf("plain banner: expected H1 demotion, got %v", cr.Level)
			}
		}
	}
}

func TestClassify_LongRunsNeverBecomeHeadings(t *testing.T) {
	long := strings.Repeat("word ", 40)
	doc := onePageDoc(792,
		run(long, 16, 700),
		run(body, 11, 650),
		run(body, 11, 630),
	)

	out := NewClassifier(DefaultConfig()).Classify(doc)
	if out[0].Level.IsHeading() {
		t.Errorf("40-word run: expected body, got %v", out[0].Level)
	}
}

func TestClassify_EmptyDocument(t *testing.T) {
	out := NewClassifier(DefaultConfig()).Classify(&document.Document{ID: "empty"})
	if out != nil {
		t.Errorf("expected nil for empty document, got %d runs", len(out))
	}
}
