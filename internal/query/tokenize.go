package query

import (
	"strings"
	"unicode"
)

// stopWords are dropped during tokenization. The set is fixed: tokenization
// must be deterministic because scores and rankings depend on it.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true,
	"she": true, "it": true, "we": true, "they": true, "me": true,
	"him": true, "her": true, "us": true, "them": true, "my": true,
	"your": true, "his": true, "its": true, "our": true, "their": true,
	"not": true, "no": true, "so": true, "if": true, "then": true,
	"than": true, "there": true, "here": true, "into": true, "over": true,
	"about": true, "after": true, "before": true, "between": true,
	"through": true, "during": true, "each": true, "all": true, "any": true,
	"both": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "only": true, "own": true, "same": true, "too": true,
	"very": true, "just": true, "also": true, "when": true, "where": true,
	"how": true, "what": true, "which": true, "who": true, "why": true,
}

// Tokenize lowercases text, strips punctuation, and drops stop words and
// words shorter than three characters. Token order follows the input text;
// duplicates are preserved (term frequency matters downstream).
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		w := cur.String()
		cur.Reset()
		if len(w) <= 2 || stopWords[w] {
			return
		}
		tokens = append(tokens, w)
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// UniqueTerms returns the distinct tokens of a text in first-seen order.
func UniqueTerms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
