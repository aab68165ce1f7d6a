package query

import (
	"reflect"
	"testing"
)

func TestTokenize_DropsStopWordsAndShortWords(t *testing.T) {
	got := Tokenize("Plan a trip to the South of France for college friends!")
	want := []string{"plan", "trip", "south", "france", "college", "friends"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_PreservesDuplicates(t *testing.T) {
	got := Tokenize("hotel hotel restaurant")
	want := []string{"hotel", "hotel", "restaurant"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "The Travel Planner books hotels, restaurants & museums in Nice."
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		if got := Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize("  ... !!! a an "); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestUniqueTerms_FirstSeenOrder(t *testing.T) {
	got := UniqueTerms([]string{"beach", "hotel", "beach", "tour", "hotel"})
	want := []string{"beach", "hotel", "tour"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDetect_TravelTokens(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	tokens := Tokenize("plan the itinerary, book a hotel and a guided tour of the city")
	if got := det.Detect(tokens); got != "travel" {
		t.Errorf("expected travel, got %q", got)
	}
}

func TestDetect_BelowThresholdIsGeneral(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	tokens := []string{"hotel", "unrelated", "words"}
	if got := det.Detect(tokens); got != DomainGeneral {
		t.Errorf("expected %q for a single keyword hit, got %q", DomainGeneral, got)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	tokens := Tokenize("clinical trial outcomes for the new treatment and therapy options")
	first := det.Detect(tokens)
	if first != "medical" {
		t.Fatalf("expected medical, got %q", first)
	}
	for i := 0; i < 10; i++ {
		if got := det.Detect(tokens); got != first {
			t.Fatalf("run %d diverged: %q vs %q", i, got, first)
		}
	}
}

func TestDetect_EmptyTokens(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	if got := det.Detect(nil); got != DomainGeneral {
		t.Errorf("expected %q, got %q", DomainGeneral, got)
	}
}

func TestBuild_ExpandsWithRules(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	q := Build("Travel Agent", "plan a trip", det, DefaultExpansionRules())

	if q.Empty() {
		t.Fatal("expected a non-empty query")
	}
	if q.Domain != "travel" {
		t.Errorf("expected travel domain, got %q", q.Domain)
	}

	inExpanded := make(map[string]bool, len(q.Expanded))
	for _, term := range q.Expanded {
		inExpanded[term] = true
	}
	// Base terms always survive into the expansion.
	for _, base := range q.BaseTerms {
		if !inExpanded[base] {
			t.Errorf("base term %q missing from expansion", base)
		}
	}
	// "travel" and "trip" both carry association rules.
	for _, term := range []string{"itinerary", "destination", "hotel"} {
		if !inExpanded[term] {
			t.Errorf("expected rule expansion to add %q; expanded: %v", term, q.Expanded)
		}
	}
}

func TestBuild_EmptyInputs(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	q := Build("", "", det, DefaultExpansionRules())
	if !q.Empty() {
		t.Errorf("expected empty query, got base terms %v", q.BaseTerms)
	}
	if q.Domain != DomainGeneral {
		t.Errorf("expected %q, got %q", DomainGeneral, q.Domain)
	}
}

func TestAddExpansion_SkipsKnownTerms(t *testing.T) {
	det := NewDetector(DefaultDomainVocabularies(), 2)
	q := Build("travel agent", "", det, nil)
	before := len(q.Expanded)

	q.AddExpansion([]string{"travel", "coastal", "coastal", "beaches"})
	want := before + 2
	if len(q.Expanded) != want {
		t.Errorf("expected %d expanded terms, got %d: %v", want, len(q.Expanded), q.Expanded)
	}
}
