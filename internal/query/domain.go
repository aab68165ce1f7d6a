package query

import "sort"

// DomainGeneral is the label used when no domain reaches the overlap
// threshold. The domain set itself is open: callers inject vocabularies.
const DomainGeneral = "general"

// DefaultDomainVocabularies returns the built-in per-domain keyword sets
// used for overlap-voting domain detection. Callers may extend or replace
// the map; detection never mutates it.
func DefaultDomainVocabularies() map[string][]string {
	return map[string][]string{
		"academic": {
			"research", "study", "analysis", "methodology", "literature",
			"findings", "experiment", "data", "results", "conclusion",
			"hypothesis", "theory", "review", "survey", "evaluation",
			"benchmark", "dataset", "citation", "abstract", "phd",
		},
		"business": {
			"revenue", "profit", "growth", "market", "financial",
			"investment", "strategy", "performance", "competitive",
			"industry", "trends", "forecast", "metrics", "roi", "margin",
			"customer", "product", "earnings", "analyst", "quarterly",
		},
		"technical": {
			"system", "algorithm", "implementation", "architecture",
			"design", "software", "hardware", "optimization", "testing",
			"validation", "framework", "platform", "interface", "tutorial",
			"configuration", "install", "feature", "tool", "acrobat",
		},
		"medical": {
			"patient", "treatment", "diagnosis", "therapy", "clinical",
			"medical", "health", "disease", "symptom", "drug", "medication",
			"procedure", "outcome", "efficacy", "safety", "trial",
		},
		"chemistry": {
			"reaction", "compound", "synthesis", "mechanism", "structure",
			"molecular", "chemical", "organic", "kinetics", "thermodynamics",
			"catalyst", "bond", "electron", "properties",
		},
		"culinary": {
			"recipe", "ingredients", "cook", "bake", "dish", "cuisine",
			"flavor", "serve", "meal", "menu", "sauce", "oven", "grill",
			"vegetarian", "dinner", "breakfast", "lunch", "spice",
		},
		"travel": {
			"travel", "itinerary", "hotel", "flight", "tour", "destination",
			"restaurant", "city", "trip", "guide", "visit", "beach",
			"museum", "attraction", "booking", "nightlife", "adventure",
			"culture", "coastal", "packing",
		},
	}
}

// DefaultExpansionRules returns the built-in keyword association table used
// for rule-based query expansion: when a base term appears as a key, its
// related terms join the expanded set.
func DefaultExpansionRules() map[string][]string {
	return map[string][]string{
		"research":   {"methodology", "analysis", "study", "findings", "literature"},
		"literature": {"review", "methodology", "dataset", "benchmark", "citation"},
		"analysis":   {"evaluation", "assessment", "examination", "review"},
		"method":     {"approach", "technique", "procedure", "methodology"},
		"student":    {"concept", "theory", "definition", "summary", "exam"},
		"exam":       {"key", "concept", "theory", "principle", "summary"},
		"financial":  {"revenue", "profit", "earnings", "growth", "trends"},
		"investment": {"revenue", "market", "earnings", "strategy"},
		"market":     {"industry", "sector", "competitive", "trends"},
		"data":       {"dataset", "statistics", "metrics", "evidence"},
		"chemistry":  {"reaction", "compound", "mechanism", "kinetics"},
		"travel":     {"itinerary", "destination", "hotel", "attraction", "tour"},
		"itinerary":  {"day", "trip", "schedule", "visit", "city"},
		"agent":      {"booking", "tour", "guide", "destination"},
		"trip":       {"itinerary", "travel", "hotel", "restaurant"},
		"menu":       {"recipe", "dish", "ingredients", "serve"},
		"recipe":     {"ingredients", "cook", "dish", "serve"},
		"hr":         {"form", "onboarding", "compliance", "fillable"},
		"forms":      {"fillable", "signature", "fields", "acrobat"},
	}
}

// Detector classifies token sets into a coarse domain label by keyword
// overlap voting. The vocabulary map is read-only after construction.
type Detector struct {
	domains    map[string][]string
	minOverlap int
}

// NewDetector builds a detector over the given vocabularies. minOverlap is
// the vote count a domain must reach before its label sticks; below it the
// result is DomainGeneral.
func NewDetector(domains map[string][]string, minOverlap int) *Detector {
	if minOverlap <= 0 {
		minOverlap = 2
	}
	return &Detector{domains: domains, minOverlap: minOverlap}
}

// Detect returns the domain whose vocabulary overlaps the tokens most.
// Ties break by total overlap count and then alphabetically, so detection
// is idempotent for a fixed token set.
func (d *Detector) Detect(tokens []string) string {
	if len(tokens) == 0 {
		return DomainGeneral
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	names := make([]string, 0, len(d.domains))
	for name := range d.domains {
		names = append(names, name)
	}
	sort.Strings(names)

	best := DomainGeneral
	bestDistinct, bestTotal := 0, 0
	for _, name := range names {
		distinct, total := 0, 0
		for _, kw := range d.domains[name] {
			if n := counts[kw]; n > 0 {
				distinct++
				total += n
			}
		}
		if distinct < d.minOverlap {
			continue
		}
		if distinct > bestDistinct || (distinct == bestDistinct && total > bestTotal) {
			best = name
			bestDistinct, bestTotal = distinct, total
		}
	}
	return best
}
