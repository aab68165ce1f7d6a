package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jaspreetjk20/docrank/internal/document"
	"github.com/jaspreetjk20/docrank/internal/loader"
	"github.com/jaspreetjk20/docrank/internal/rank"
	"github.com/jaspreetjk20/docrank/internal/score"
	"github.com/jaspreetjk20/docrank/internal/segment"
	"github.com/jaspreetjk20/docrank/internal/structure"
)

// Config holds the pipeline stage settings and worker pool bounds.
type Config struct {
	Structure structure.Config
	Segment   segment.Config
	Score     score.Config
	Rank      rank.Config

	// Workers bounds concurrent per-document processing.
	Workers int
	// DocTimeout bounds how long one document may take before it is
	// skipped with a timeout reason.
	DocTimeout time.Duration
}

// DefaultConfig returns the stage defaults with one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Structure:  structure.DefaultConfig(),
		Segment:    segment.DefaultConfig(),
		Score:      score.DefaultConfig(),
		Rank:       rank.DefaultConfig(),
		Workers:    runtime.NumCPU(),
		DocTimeout: 60 * time.Second,
	}
}

// OpenFunc resolves a request filename to its content stream under the
// per-document context. The pipeline closes the returned reader.
type OpenFunc func(ctx context.Context, filename string) (io.ReadCloser, error)

// Orchestrator runs batches end to end: parallel per-document extraction and
// segmentation, then batch-wide scoring and ranking. One orchestrator is
// safe for concurrent batches; all batch state is local to Run.
type Orchestrator struct {
	cfg        Config
	classifier *structure.Classifier
	engine     *score.Engine
	log        *slog.Logger
}

// New creates an orchestrator. Nil logger panics by design of slog; callers
// pass a real logger or slog.Default().
func New(cfg Config, log *slog.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.DocTimeout <= 0 {
		cfg.DocTimeout = 60 * time.Second
	}
	return &Orchestrator{
		cfg:        cfg,
		classifier: structure.NewClassifier(cfg.Structure),
		engine:     score.NewEngine(cfg.Score, nil, nil, log),
		log:        log,
	}
}

// docResult is the per-document output collected at the merge barrier.
// Exactly one of sections or skip is set.
type docResult struct {
	sections []document.Section
	gaps     []document.PageGap
	skip     *document.SkippedDocument
}

// Run processes one batch. Per-document failures are recorded as skips; the
// batch fails only when no document yields sections.
func (o *Orchestrator) Run(ctx context.Context, req *Request, open OpenFunc) (*document.RankedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	started := time.Now().UTC()
	log := o.log.With("batch_id", batchID)

	log.Info("batch started",
		"documents", len(req.Documents),
		"persona", req.Persona.Role,
		"workers", o.cfg.Workers,
	)

	// Fan out one task per document; results land in index slots so the
	// merge needs no locking and stays input-ordered.
	results := make([]docResult, len(req.Documents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)

	for i, ref := range req.Documents {
		i, ref := i, ref
		g.Go(func() error {
			results[i] = o.processOne(gctx, ref, i, open, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge barrier: scoring needs the complete batch vocabulary.
	var sections []document.Section
	var skipped []document.SkippedDocument
	pageGaps := make(map[string][]document.PageGap)
	for i, res := range results {
		if res.skip != nil {
			skipped = append(skipped, *res.skip)
			log.Warn("document skipped",
				"document", res.skip.Document,
				"reason", res.skip.Reason,
			)
			continue
		}
		sections = append(sections, res.sections...)
		if len(res.gaps) > 0 {
			pageGaps[req.Documents[i].Filename] = res.gaps
		}
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %d of %d documents skipped",
			ErrNoDocuments, len(skipped), len(req.Documents))
	}

	sr := o.engine.Score(sections, req.Persona.Role, req.Job.Task)
	ranked := rank.Build(sr.Sections, sr.ScorePassage, o.cfg.Rank)

	result := o.assemble(batchID, req, sr, ranked, skipped, pageGaps, started)

	log.Info("batch finished",
		"sections_extracted", len(sections),
		"sections_ranked", len(ranked),
		"skipped", len(skipped),
		"domain", sr.Query.Domain,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return result, nil
}

// processOne loads, classifies and segments a single document under the
// per-document timeout. Failures become skip records, never batch errors.
func (o *Orchestrator) processOne(ctx context.Context, ref DocumentRef, order int, open OpenFunc, log *slog.Logger) docResult {
	skip := func(reason string) docResult {
		return docResult{skip: &document.SkippedDocument{
			Document: ref.Filename,
			Reason:   reason,
		}}
	}

	if !loader.IsSupportedExtension(ref.Filename) {
		return skip(ReasonUnsupported)
	}

	dctx, cancel := context.WithTimeout(ctx, o.cfg.DocTimeout)
	defer cancel()

	// On timeout the extract goroutine is abandoned; it observes the
	// cancelled dctx at the next stage boundary and exits, so a stuck
	// parse holds at most one goroutine until its current stage returns.
	done := make(chan docResult, 1)
	go func() {
		done <- o.extract(dctx, ref, order, open, log)
	}()

	select {
	case <-dctx.Done():
		return skip(ReasonTimeout)
	case res := <-done:
		return res
	}
}

func (o *Orchestrator) extract(ctx context.Context, ref DocumentRef, order int, open OpenFunc, log *slog.Logger) docResult {
	skip := func(reason string) docResult {
		return docResult{skip: &document.SkippedDocument{
			Document: ref.Filename,
			Reason:   reason,
		}}
	}

	ld, err := loader.ForFile(ref.Filename)
	if err != nil {
		return skip(ReasonUnsupported)
	}

	rc, err := open(ctx, ref.Filename)
	if err != nil {
		log.Warn("open failed", "document", ref.Filename, "error", err)
		return skip(ReasonParseFailure)
	}
	defer rc.Close()
	if err := ctx.Err(); err != nil {
		return skip(ReasonTimeout)
	}

	doc, err := ld.Load(rc, ref.Filename)
	if err != nil {
		log.Warn("load failed", "document", ref.Filename, "error", err)
		return skip(ReasonParseFailure)
	}
	if err := ctx.Err(); err != nil {
		return skip(ReasonTimeout)
	}
	doc.Order = order
	if ref.Title != "" {
		doc.Title = ref.Title
	}
	if doc.RunCount() == 0 {
		return skip(ReasonEmptyStructure)
	}

	runs := o.classifier.Classify(doc)
	sections := segment.Segment(doc, runs, o.cfg.Segment)
	if len(sections) == 0 {
		return skip(ReasonEmptyStructure)
	}

	log.Debug("document segmented",
		"document", ref.Filename,
		"pages", len(doc.Pages),
		"runs", doc.RunCount(),
		"sections", len(sections),
		"page_gaps", len(doc.Gaps),
	)
	return docResult{sections: sections, gaps: doc.Gaps}
}

func (o *Orchestrator) assemble(batchID string, req *Request, sr score.Result, ranked []document.RankedSection, skipped []document.SkippedDocument, pageGaps map[string][]document.PageGap, started time.Time) *document.RankedResult {
	names := make([]string, len(req.Documents))
	for i, d := range req.Documents {
		names[i] = d.Filename
	}

	afterNoise := 0
	for _, s := range sr.Sections {
		if !s.Noise {
			afterNoise++
		}
	}
	perDoc := make(map[string]int)
	for _, s := range ranked {
		perDoc[s.Document]++
	}

	stats := document.Stats{
		DocumentsProcessed: len(req.Documents) - len(skipped),
		DocumentsSkipped:   skipped,
		PageGaps:           pageGaps,
		SectionsExtracted:  len(sr.Sections),
		SectionsAfterNoise: afterNoise,
		SectionsRanked:     len(ranked),
		PerDocument:        perDoc,
		QueryDomain:        sr.Query.Domain,
	}
	if len(ranked) < o.cfg.Rank.TopK {
		stats.Shortfall = fmt.Sprintf(
			"only %d of %d requested sections available after filtering",
			len(ranked), o.cfg.Rank.TopK)
	}

	return &document.RankedResult{
		Metadata: document.Metadata{
			BatchID:   batchID,
			Persona:   req.Persona.Role,
			Job:       req.Job.Task,
			Documents: names,
			Challenge: req.Challenge,
			Timestamp: started.Format(time.RFC3339),
		},
		Sections: ranked,
		Stats:    stats,
	}
}
