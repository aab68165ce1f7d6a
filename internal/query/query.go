package query

import "sort"

// Query is the intent representation built from the persona role and the
// job-to-be-done task: base terms, an expanded term set, and a detected
// domain label.
type Query struct {
	Persona string
	Task    string

	// BaseTerms are the distinct tokens of persona+task, in text order.
	BaseTerms []string
	// Expanded is BaseTerms plus rule-based and statistical expansions,
	// deduplicated; base terms keep their order, expansions follow sorted.
	Expanded []string
	Domain   string
}

// Empty reports whether the persona/task produced no usable terms. Scoring
// falls back to structural confidence when this holds.
func (q *Query) Empty() bool {
	return len(q.BaseTerms) == 0
}

// Build tokenizes the persona and task and applies rule-based expansion.
// Statistical expansion is appended later by the scoring engine once the
// batch vocabulary exists (AddExpansion).
func Build(persona, task string, det *Detector, rules map[string][]string) Query {
	tokens := append(Tokenize(persona), Tokenize(task)...)
	base := UniqueTerms(tokens)

	q := Query{
		Persona:   persona,
		Task:      task,
		BaseTerms: base,
		Domain:    det.Detect(tokens),
	}

	// Rule-based expansion: related terms for every base term with an
	// association entry, kept sorted for determinism.
	inBase := make(map[string]bool, len(base))
	for _, t := range base {
		inBase[t] = true
	}
	extra := make(map[string]bool)
	for _, t := range base {
		for _, rel := range rules[t] {
			if !inBase[rel] {
				extra[rel] = true
			}
		}
	}
	q.Expanded = append(q.Expanded, base...)
	q.Expanded = append(q.Expanded, sortedKeys(extra)...)
	return q
}

// AddExpansion appends statistically expanded terms that are not already in
// the expanded set, preserving determinism (input order is kept, caller
// passes a deterministically ordered slice).
func (q *Query) AddExpansion(terms []string) {
	have := make(map[string]bool, len(q.Expanded))
	for _, t := range q.Expanded {
		have[t] = true
	}
	for _, t := range terms {
		if !have[t] {
			have[t] = true
			q.Expanded = append(q.Expanded, t)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
