package rank

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// passageWindow is the number of consecutive sentences per candidate passage.
const passageWindow = 2

// Passages extracts up to max sub-passages from a section, ordered by their
// score against the query. Candidate passages are sliding windows of
// consecutive sentences; boilerplate sentences are dropped before windowing.
// When the query is empty every passage scores zero and document order wins.
func Passages(sec *document.Section, scorePassage func(string) float64, max int) []document.Passage {
	if max <= 0 {
		return nil
	}

	sentences := splitSentences(sec.Text())
	kept := sentences[:0]
	for _, s := range sentences {
		if !boilerplateSentence(s) {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	type candidate struct {
		text  string
		score float64
		pos   int
	}
	var candidates []candidate

	step := passageWindow
	for i := 0; i < len(kept); i += step {
		end := i + passageWindow
		if end > len(kept) {
			end = len(kept)
		}
		text := strings.Join(kept[i:end], " ")
		candidates = append(candidates, candidate{
			text:  text,
			score: scorePassage(text),
			pos:   i,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	out := make([]document.Passage, len(candidates))
	for i, c := range candidates {
		out[i] = document.Passage{Text: c.text, Score: c.score}
	}
	return out
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// boilerplateSentence filters sentences that carry no content: page markers,
// very short fragments, shouting headers, and symbol runs.
func boilerplateSentence(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 20 {
		return true
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "page ") && len(strings.Fields(lower)) <= 3 {
		return true
	}

	var letters, upper, symbols, total int
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case !unicode.IsDigit(r):
			symbols++
		}
	}
	if total == 0 {
		return true
	}
	if letters > 10 && upper == letters {
		return true
	}
	return float64(symbols)/float64(total) > 0.5
}
