package score

import (
	"log/slog"

	"github.com/jaspreetjk20/docrank/internal/document"
	"github.com/jaspreetjk20/docrank/internal/query"
)

// Config holds the fixed scoring weights and policy constants. Weights are
// configuration, not learned parameters.
type Config struct {
	// ExpandTerms is the number of statistically expanded terms added to
	// the query (M).
	ExpandTerms int
	// MinDomainOverlap is the keyword-overlap vote count a domain needs
	// before its label is assigned.
	MinDomainOverlap int

	SimilarityWeight float64 // w1: TF-IDF cosine against the expanded query
	DomainWeight     float64 // w2: domain-match indicator
	QualityWeight    float64 // w3: composite quality signal

	// NoiseFloor flags sections as noise when their quality falls below it;
	// noise is excluded from ranking regardless of similarity.
	NoiseFloor float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ExpandTerms:      12,
		MinDomainOverlap: 2,
		SimilarityWeight: 0.55,
		DomainWeight:     0.2,
		QualityWeight:    0.25,
		NoiseFloor:       0.15,
	}
}

// Engine scores sections against a persona/task query. The domain
// vocabularies and expansion rules are injected at construction and never
// mutated, so one engine is safe to share across batches.
type Engine struct {
	cfg      Config
	detector *query.Detector
	rules    map[string][]string
	log      *slog.Logger
}

func NewEngine(cfg Config, domains map[string][]string, rules map[string][]string, log *slog.Logger) *Engine {
	d := DefaultConfig()
	if cfg.ExpandTerms <= 0 {
		cfg.ExpandTerms = d.ExpandTerms
	}
	if cfg.MinDomainOverlap <= 0 {
		cfg.MinDomainOverlap = d.MinDomainOverlap
	}
	if cfg.SimilarityWeight <= 0 {
		cfg.SimilarityWeight = d.SimilarityWeight
	}
	if cfg.DomainWeight < 0 {
		cfg.DomainWeight = d.DomainWeight
	}
	if cfg.QualityWeight < 0 {
		cfg.QualityWeight = d.QualityWeight
	}
	if cfg.NoiseFloor <= 0 {
		cfg.NoiseFloor = d.NoiseFloor
	}
	if domains == nil {
		domains = query.DefaultDomainVocabularies()
	}
	if rules == nil {
		rules = query.DefaultExpansionRules()
	}
	return &Engine{
		cfg:      cfg,
		detector: query.NewDetector(domains, cfg.MinDomainOverlap),
		rules:    rules,
		log:      log,
	}
}

// Result bundles the scored sections with the query representation and a
// passage scorer bound to the same vector space, for sub-section ranking.
type Result struct {
	Sections []document.ScoredSection
	Query    query.Query

	// ScorePassage scores arbitrary text against the expanded query vector
	// in the batch vector space.
	ScorePassage func(text string) float64
}

// Score produces a ScoredSection for every input section. For a fixed
// section batch and persona/task the output is identical on every run: the
// vocabulary is sorted, iteration is index-ordered, and no map order leaks
// into the result.
func (e *Engine) Score(sections []document.Section, persona, task string) Result {
	tokens := make([][]string, len(sections))
	for i := range sections {
		tokens[i] = query.Tokenize(sections[i].Title + " " + sections[i].Text())
	}

	vs := NewVectorSpace(tokens)
	q := query.Build(persona, task, e.detector, e.rules)

	if !q.Empty() {
		expansion := vs.SimilarTerms(q.BaseTerms, e.cfg.ExpandTerms)
		q.AddExpansion(expansion)
		e.log.Debug("query built",
			"base_terms", len(q.BaseTerms),
			"expanded_terms", len(q.Expanded),
			"domain", q.Domain,
		)
	} else {
		e.log.Warn("empty query, falling back to structural confidence ranking",
			"persona", persona)
	}

	qvec := vs.QueryVector(q.Expanded)
	dups := DuplicateCounts(sections)

	scored := make([]document.ScoredSection, len(sections))
	for i := range sections {
		sec := &sections[i]
		quality := QualityScore(sec, tokens[i], dups[i])

		ss := document.ScoredSection{
			Section: *sec,
			Quality: quality,
			Domain:  e.detector.Detect(tokens[i]),
			Noise:   quality < e.cfg.NoiseFloor,
		}

		if q.Empty() {
			// Structural fallback: rank by segmentation confidence alone.
			ss.Score = sec.Confidence
		} else {
			sim := vs.CosineDoc(i, qvec)
			fit := 0.0
			if ss.Domain == q.Domain && q.Domain != query.DomainGeneral {
				fit = 1
			}
			ss.Similarity = sim
			ss.DomainFit = fit
			ss.Score = e.cfg.SimilarityWeight*sim +
				e.cfg.DomainWeight*fit +
				e.cfg.QualityWeight*quality
		}
		scored[i] = ss
	}

	return Result{
		Sections: scored,
		Query:    q,
		ScorePassage: func(text string) float64 {
			if q.Empty() {
				return 0
			}
			return CosineDense(vs.QueryVector(query.Tokenize(text)), qvec)
		},
	}
}
