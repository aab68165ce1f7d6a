package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

const travelGuide = `# South of France Guide

The south of France offers coastal towns, sandy beaches and a lively nightlife scene that attracts groups of college friends planning trips every summer season.

## Coastal Adventures

Visit the beach at sunrise, explore the coastal villages nearby, book a boat tour of the harbor and finish the day with nightlife in the old town clubs.

## Where to Stay

Hotels near the beach fill quickly so early booking matters; budget travelers find hostels while larger groups often prefer renting coastal villas together for the week.
`

const recipeBook = `# Hearty Dinner Recipes

Every recipe in this collection combines fresh ingredients into a warm dish that home cooks can prepare, bake and serve for a relaxed family dinner.

## Vegetarian Mains

Roast the vegetables with olive oil and spice, fold them into the sauce, and serve the finished dish straight from the oven with crusty bread.
`

const softwareManual = `The export feature converts documents into portable formats. Open the tool, select the configuration panel and choose the output format before starting the conversion process.

The batch mode processes entire folders at once. Point the tool at a folder, apply the saved configuration and let the conversion run unattended until every file completes.
`

func testFiles() map[string]string {
	return map[string]string{
		"south-of-france.md": travelGuide,
		"dinner-recipes.md":  recipeBook,
		"export-manual.txt":  softwareManual,
	}
}

func openFrom(files map[string]string) OpenFunc {
	return func(_ context.Context, filename string) (io.ReadCloser, error) {
		content, ok := files[filename]
		if !ok {
			return nil, errors.New("no such file")
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func testRequest() *Request {
	return &Request{
		Documents: []DocumentRef{
			{Filename: "south-of-france.md"},
			{Filename: "dinner-recipes.md"},
			{Filename: "export-manual.txt"},
		},
		Persona: Persona{Role: "Travel Planner"},
		Job:     Job{Task: "Plan a 4 day coastal trip with nightlife and beaches for a group of college friends"},
	}
}

func testOrchestrator() *Orchestrator {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(DefaultConfig(), log)
}

func TestRun_TravelPersonaPrefersTravelDocument(t *testing.T) {
	o := testOrchestrator()
	res, err := o.Run(context.Background(), testRequest(), openFrom(testFiles()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Sections) == 0 {
		t.Fatal("expected ranked sections")
	}
	if res.Sections[0].Document != "south-of-france" {
		t.Errorf("expected top section from the travel guide, got %q (%q)",
			res.Sections[0].Document, res.Sections[0].Title)
	}
	if res.Sections[0].Rank != 1 {
		t.Errorf("expected rank 1 first, got %d", res.Sections[0].Rank)
	}
	for i := 1; i < len(res.Sections); i++ {
		if res.Sections[i].Rank != res.Sections[i-1].Rank+1 {
			t.Errorf("ranks not sequential at %d", i)
		}
		if res.Sections[i].Score > res.Sections[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}

	if res.Stats.QueryDomain != "travel" {
		t.Errorf("expected travel query domain, got %q", res.Stats.QueryDomain)
	}
	if res.Stats.DocumentsProcessed != 3 {
		t.Errorf("expected 3 processed documents, got %d", res.Stats.DocumentsProcessed)
	}
	if res.Metadata.Persona != "Travel Planner" {
		t.Errorf("metadata persona mismatch: %q", res.Metadata.Persona)
	}
	if len(res.Metadata.Documents) != 3 {
		t.Errorf("expected 3 input documents echoed, got %d", len(res.Metadata.Documents))
	}
	if res.Metadata.BatchID == "" {
		t.Error("expected a batch id")
	}
}

func TestRun_RankedSectionsCarryPassages(t *testing.T) {
	o := testOrchestrator()
	res, err := o.Run(context.Background(), testRequest(), openFrom(testFiles()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := res.Sections[0]
	if len(top.Passages) == 0 {
		t.Fatal("expected passages on the top section")
	}
	if len(top.Passages) > DefaultConfig().Rank.PassagesPerSection {
		t.Errorf("passage budget exceeded: %d", len(top.Passages))
	}
	for i := 1; i < len(top.Passages); i++ {
		if top.Passages[i].Score > top.Passages[i-1].Score {
			t.Errorf("passages not ordered by score at %d", i)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	o := testOrchestrator()
	first, err := o.Run(context.Background(), testRequest(), openFrom(testFiles()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		res, err := o.Run(context.Background(), testRequest(), openFrom(testFiles()))
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if !reflect.DeepEqual(res.Sections, first.Sections) {
			t.Fatalf("run %d produced a different ranking", i)
		}
	}
}

func TestRun_UnreadableDocumentIsSkipped(t *testing.T) {
	files := testFiles()
	delete(files, "dinner-recipes.md")

	o := testOrchestrator()
	res, err := o.Run(context.Background(), testRequest(), openFrom(files))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Stats.DocumentsProcessed != 2 {
		t.Errorf("expected 2 processed, got %d", res.Stats.DocumentsProcessed)
	}
	if len(res.Stats.DocumentsSkipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(res.Stats.DocumentsSkipped))
	}
	skip := res.Stats.DocumentsSkipped[0]
	if skip.Document != "dinner-recipes.md" || skip.Reason != ReasonParseFailure {
		t.Errorf("unexpected skip record: %+v", skip)
	}
}

func TestRun_UnsupportedExtensionIsSkipped(t *testing.T) {
	req := testRequest()
	req.Documents = append(req.Documents, DocumentRef{Filename: "budget.xlsx"})

	o := testOrchestrator()
	res, err := o.Run(context.Background(), req, openFrom(testFiles()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range res.Stats.DocumentsSkipped {
		if s.Document == "budget.xlsx" && s.Reason == ReasonUnsupported {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unsupported_format skip, got %+v", res.Stats.DocumentsSkipped)
	}
}

func TestRun_AllDocumentsFailing(t *testing.T) {
	o := testOrchestrator()
	_, err := o.Run(context.Background(), testRequest(), openFrom(map[string]string{}))
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestRun_SlowDocumentTimesOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DocTimeout = 20 * time.Millisecond
	o := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	files := testFiles()
	cancelled := make(chan struct{})
	open := func(ctx context.Context, filename string) (io.ReadCloser, error) {
		if filename == "export-manual.txt" {
			// Block until the per-document deadline cancels the context.
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return openFrom(files)(ctx, filename)
	}

	res, err := o.Run(context.Background(), testRequest(), open)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range res.Stats.DocumentsSkipped {
		if s.Document == "export-manual.txt" && s.Reason == ReasonTimeout {
			found = true
		}
	}
	if !found {
		t.Errorf("expected timeout skip, got %+v", res.Stats.DocumentsSkipped)
	}

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Error("timeout never reached the open callback")
	}
}

func TestRun_EmptyQueryFallsBackToStructure(t *testing.T) {
	req := testRequest()
	req.Persona.Role = ""
	req.Job.Task = ""

	o := testOrchestrator()
	res, err := o.Run(context.Background(), req, openFrom(testFiles()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sections) == 0 {
		t.Fatal("expected sections even without a query")
	}
	if res.Stats.QueryDomain != "general" {
		t.Errorf("expected general domain, got %q", res.Stats.QueryDomain)
	}
}

func TestParseRequest_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"documents":[{"filename":"a.pdf"}],"persona":{"role":"r"},"job_to_be_done":{"task":"t"}}`, true},
		{"no documents", `{"documents":[],"persona":{"role":"r"}}`, false},
		{"blank filename", `{"documents":[{"filename":" "}]}`, false},
		{"duplicate filename", `{"documents":[{"filename":"a.pdf"},{"filename":"a.pdf"}]}`, false},
		{"bad json", `{`, false},
	}
	for _, c := range cases {
		_, err := ParseRequest(strings.NewReader(c.body))
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}
