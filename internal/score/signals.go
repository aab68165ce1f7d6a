package score

import (
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
	"github.com/jaspreetjk20/docrank/internal/query"
)

// Quality is decomposed into independent signal functions, each returning
// 0..1, combined by weighted sum. Keeping them separate makes each signal
// testable in isolation.

// LengthSignal rewards moderate section length. Very short sections carry
// little information; extremely long ones are usually under-segmented.
func LengthSignal(words int) float64 {
	switch {
	case words < 10:
		return 0
	case words < 50:
		return float64(words-10) / 40
	case words <= 800:
		return 1
	case words <= 1500:
		return 0.8
	default:
		return 0.6
	}
}

// UniqueWordSignal penalizes abnormally low unique-word ratios, a marker of
// repeated boilerplate like navigation footers.
func UniqueWordSignal(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	unique := len(query.UniqueTerms(tokens))
	ratio := float64(unique) / float64(len(tokens))
	if ratio >= 0.5 {
		return 1
	}
	return ratio / 0.5
}

// DuplicationSignal zeroes out sections whose exact text repeats across two
// or more source documents (headers, footers, legal boilerplate).
func DuplicationSignal(dupDocs int) float64 {
	if dupDocs >= 2 {
		return 0
	}
	return 1
}

// TitleHintSignal nudges sections whose headings look structurally
// important (overview, results, numbered sections) above neutral ones.
func TitleHintSignal(title string) float64 {
	t := strings.ToLower(title)
	for _, kw := range []string{
		"introduction", "overview", "summary", "conclusion", "abstract",
		"methodology", "results", "analysis", "discussion", "key", "guide",
	} {
		if strings.Contains(t, kw) {
			return 1
		}
	}
	if len(t) > 1 && t[0] >= '0' && t[0] <= '9' && (t[1] == '.' || t[1] == ')') {
		return 0.8
	}
	return 0.5
}

// Relative weights of the quality signals.
const (
	lengthWeight      = 0.35
	uniqueWeight      = 0.25
	duplicationWeight = 0.25
	titleHintWeight   = 0.15
)

// QualityScore combines the signals for one section.
func QualityScore(sec *document.Section, tokens []string, dupDocs int) float64 {
	return lengthWeight*LengthSignal(sec.Words) +
		uniqueWeight*UniqueWordSignal(tokens) +
		duplicationWeight*DuplicationSignal(dupDocs) +
		titleHintWeight*TitleHintSignal(sec.Title)
}

// DuplicateCounts returns, for each section, the number of distinct source
// documents sharing its exact normalized text. A count of 1 means unique.
func DuplicateCounts(sections []document.Section) []int {
	type key = string
	docsByText := make(map[key]map[string]bool)
	texts := make([]string, len(sections))

	for i := range sections {
		text := normalizeText(sections[i].Text())
		texts[i] = text
		if text == "" {
			continue
		}
		if docsByText[text] == nil {
			docsByText[text] = make(map[string]bool)
		}
		docsByText[text][sections[i].DocID] = true
	}

	counts := make([]int, len(sections))
	for i := range sections {
		if texts[i] == "" {
			counts[i] = 1
			continue
		}
		counts[i] = len(docsByText[texts[i]])
	}
	return counts
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
