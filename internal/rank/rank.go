package rank

import (
	"sort"
	"strings"

	"github.com/jaspreetjk20/docrank/internal/document"
)

// Config controls final selection.
type Config struct {
	// TopK is the number of ranked sections returned (K).
	TopK int
	// PerDocCap bounds how many sections any single source document may
	// contribute (C), enforcing diverse coverage.
	PerDocCap int
	// PassagesPerSection is the number of sub-passages kept per ranked
	// section (P).
	PassagesPerSection int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		TopK:               10,
		PerDocCap:          5,
		PassagesPerSection: 3,
	}
}

// Select picks the top-K non-noise sections by score, subject to the
// per-document cap and near-duplicate title filtering. Ties break by input
// document order, then earlier page, then shorter (more focused) section.
func Select(scored []document.ScoredSection, cfg Config) []document.ScoredSection {
	cfg = clamp(cfg)

	candidates := make([]document.ScoredSection, 0, len(scored))
	for _, s := range scored {
		if !s.Noise {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DocOrder != b.DocOrder {
			return a.DocOrder < b.DocOrder
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Words != b.Words {
			return a.Words < b.Words
		}
		return a.Title < b.Title
	})

	perDoc := make(map[string]int)
	var kept []document.ScoredSection
	var keptTitles []string

	for _, s := range candidates {
		if len(kept) >= cfg.TopK {
			break
		}
		if perDoc[s.DocID] >= cfg.PerDocCap {
			continue
		}
		title := normalizeTitle(s.Title)
		if similarTitleKept(title, keptTitles) {
			continue
		}
		perDoc[s.DocID]++
		kept = append(kept, s)
		keptTitles = append(keptTitles, title)
	}
	return kept
}

// Build ranks sections, extracts their top passages, and produces the final
// output entries with 1-based rank positions.
func Build(scored []document.ScoredSection, scorePassage func(string) float64, cfg Config) []document.RankedSection {
	cfg = clamp(cfg)
	selected := Select(scored, cfg)

	out := make([]document.RankedSection, 0, len(selected))
	for i, s := range selected {
		out = append(out, document.RankedSection{
			Document: s.DocID,
			Title:    s.Title,
			Page:     s.Page,
			Rank:     i + 1,
			Score:    s.Score,
			Domain:   s.Domain,
			Passages: Passages(&s.Section, scorePassage, cfg.PassagesPerSection),
		})
	}
	return out
}

// normalizeTitle lowercases and collapses whitespace for similarity checks.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// similarTitleKept reports whether a title duplicates one already selected:
// exact match, substring containment, or >70% word overlap.
func similarTitleKept(title string, kept []string) bool {
	if title == "" {
		return false
	}
	for _, k := range kept {
		if k == "" {
			continue
		}
		if title == k || strings.Contains(k, title) || strings.Contains(title, k) {
			return true
		}
		if wordOverlap(title, k) > 0.7 {
			return true
		}
	}
	return false
}

func wordOverlap(a, b string) float64 {
	wa := strings.Fields(a)
	wb := strings.Fields(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(wa))
	for _, w := range wa {
		set[w] = true
	}
	union := len(set)
	common := 0
	for _, w := range wb {
		if set[w] {
			common++
			set[w] = false
		} else {
			union++
		}
	}
	return float64(common) / float64(union)
}

func clamp(cfg Config) Config {
	d := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = d.TopK
	}
	if cfg.PerDocCap <= 0 {
		cfg.PerDocCap = d.PerDocCap
	}
	if cfg.PassagesPerSection <= 0 {
		cfg.PassagesPerSection = d.PassagesPerSection
	}
	if cfg.PassagesPerSection > 5 {
		cfg.PassagesPerSection = 5
	}
	return cfg
}
