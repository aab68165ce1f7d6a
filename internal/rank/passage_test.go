package rank

import (
	"strings"
	"testing"

	"github.com/jaspreetjk20/docrank/internal/document"
)

func sectionWithText(text string) *document.Section {
	return &document.Section{
		DocID: "doc",
		Title: "Section",
		Runs:  []document.TextRun{{Text: text, Size: 11, Page: 1}},
		Page:  1,
	}
}

func TestPassages_OrderedByScore(t *testing.T) {
	text := "The mountain roads are scenic but slow going in winter months. " +
		"Coastal nightlife peaks in the summer beach season every year. " +
		"Local museums close early on public holidays across the region."

	// Favor passages mentioning nightlife.
	scorer := func(p string) float64 {
		if strings.Contains(p, "nightlife") {
			return 1
		}
		return 0.1
	}

	got := Passages(sectionWithText(text), scorer, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if !strings.Contains(got[0].Text, "nightlife") {
		t.Errorf("expected top passage to mention nightlife, got %q", got[0].Text)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("passages out of order: %v before %v", got[0].Score, got[1].Score)
	}
}

func TestPassages_SkipsBoilerplate(t *testing.T) {
	text := "Page 12. " +
		"THIS ENTIRE SENTENCE IS SHOUTING AT THE READER LOUDLY. " +
		"A genuinely informative sentence about the coastal towns follows here. " +
		"Another useful sentence describes the local restaurant scene nicely."

	got := Passages(sectionWithText(text), flatScore, 5)
	for _, p := range got {
		if strings.Contains(p.Text, "SHOUTING") {
			t.Errorf("all-caps boilerplate survived: %q", p.Text)
		}
		if strings.Contains(p.Text, "Page 12") {
			t.Errorf("page marker survived: %q", p.Text)
		}
	}
	if len(got) == 0 {
		t.Fatal("expected informative sentences to survive filtering")
	}
}

func TestPassages_EmptySection(t *testing.T) {
	if got := Passages(sectionWithText(""), flatScore, 3); got != nil {
		t.Errorf("expected nil for empty section, got %d passages", len(got))
	}
}

func TestPassages_ZeroBudget(t *testing.T) {
	if got := Passages(sectionWithText("Some text worth keeping around."), flatScore, 0); got != nil {
		t.Errorf("expected nil for zero budget, got %d passages", len(got))
	}
}
