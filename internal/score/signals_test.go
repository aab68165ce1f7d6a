package score

import (
	"strings"
	"testing"

	"github.com/jaspreetjk20/docrank/internal/document"
)

func TestLengthSignal_Shape(t *testing.T) {
	cases := []struct {
		words int
		want  float64
	}{
		{0, 0},
		{9, 0},
		{30, 0.5},
		{50, 1},
		{800, 1},
		{1200, 0.8},
		{5000, 0.6},
	}
	for _, c := range cases {
		if got := LengthSignal(c.words); got != c.want {
			t.Errorf("LengthSignal(%d): expected %v, got %v", c.words, c.want, got)
		}
	}
}

func TestUniqueWordSignal(t *testing.T) {
	if got := UniqueWordSignal(nil); got != 0 {
		t.Errorf("empty: expected 0, got %v", got)
	}
	if got := UniqueWordSignal([]string{"one", "two", "three"}); got != 1 {
		t.Errorf("all unique: expected 1, got %v", got)
	}
	// 1 unique out of 4 tokens: ratio 0.25, scaled to 0.5.
	if got := UniqueWordSignal([]string{"spam", "spam", "spam", "spam"}); got != 0.5 {
		t.Errorf("repeated: expected 0.5, got %v", got)
	}
}

func TestDuplicationSignal(t *testing.T) {
	if got := DuplicationSignal(1); got != 1 {
		t.Errorf("unique text: expected 1, got %v", got)
	}
	if got := DuplicationSignal(2); got != 0 {
		t.Errorf("cross-document duplicate: expected 0, got %v", got)
	}
}

func TestTitleHintSignal(t *testing.T) {
	if got := TitleHintSignal("Introduction to the Region"); got != 1 {
		t.Errorf("keyword title: expected 1, got %v", got)
	}
	if got := TitleHintSignal("3. Packing Tips"); got != 0.8 {
		t.Errorf("numbered title: expected 0.8, got %v", got)
	}
	if got := TitleHintSignal("Random Heading"); got != 0.5 {
		t.Errorf("neutral title: expected 0.5, got %v", got)
	}
}

func TestDuplicateCounts_CrossDocumentOnly(t *testing.T) {
	boiler := "Copyright notice appears on every page of every file."
	sections := []document.Section{
		sect("a", 0, "One", boiler, 1, 0.9),
		sect("b", 1, "Two", boiler, 1, 0.9),
		sect("a", 0, "Three", "Completely different content here.", 2, 0.9),
		sect("a", 0, "Four", "", 3, 0.9),
	}

	counts := DuplicateCounts(sections)
	want := []int{2, 2, 1, 1}
	for i, w := range want {
		if counts[i] != w {
			t.Errorf("section %d: expected count %d, got %d", i, w, counts[i])
		}
	}
}

func TestDuplicateCounts_SameDocRepeatIsNotDuplicate(t *testing.T) {
	text := "The same footer repeated within a single document only."
	sections := []document.Section{
		sect("a", 0, "One", text, 1, 0.9),
		sect("a", 0, "Two", text, 2, 0.9),
	}
	counts := DuplicateCounts(sections)
	for i, c := range counts {
		if c != 1 {
			t.Errorf("section %d: expected count 1 within one document, got %d", i, c)
		}
	}
}

func TestQualityScore_RichSectionBeatsJunk(t *testing.T) {
	rich := sect("a", 0, "Overview of the Coast",
		strings.Repeat("distinct words about coastal towns beaches museums and local culture ", 6), 1, 0.9)
	junk := sect("a", 0, "", "spam spam spam spam", 2, 0.9)

	richQ := QualityScore(&rich, tokensOf(&rich), 1)
	junkQ := QualityScore(&junk, tokensOf(&junk), 2)
	if richQ <= junkQ {
		t.Errorf("expected rich quality %v to exceed junk quality %v", richQ, junkQ)
	}
}
