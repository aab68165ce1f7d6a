package document

import "strings"

// Section is the unit of analysis: a span of body text governed by one
// heading (or a synthesized equivalent). Sections never overlap within a
// document, and their concatenated text reconstructs the document's
// heading+body stream.
type Section struct {
	DocID    string
	DocOrder int // Input order of the source document
	Title    string
	Heading  *TextRun // Governing heading run; nil when the title was synthesized
	Runs     []TextRun
	Page     int // Page where the section starts
	Words    int
	// Confidence reflects how certain the segmenter is about the section
	// boundaries: high for heading-opened sections, lower for synthesized
	// and gap-based ones.
	Confidence float64
	Level      Level
}

// Text joins the section's body runs into a single string.
func (s *Section) Text() string {
	parts := make([]string, 0, len(s.Runs))
	for _, r := range s.Runs {
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// StreamText is the section's contribution to the document text stream:
// the governing heading (when one exists) followed by the body.
func (s *Section) StreamText() string {
	body := s.Text()
	if s.Heading == nil {
		return body
	}
	h := strings.TrimSpace(s.Heading.Text)
	if body == "" {
		return h
	}
	return h + " " + body
}

// ScoredSection is a Section plus its relevance breakdown. Scores are
// deterministic for a fixed (Section, Query) pair.
type ScoredSection struct {
	Section

	Score      float64 // Combined relevance, higher is more relevant
	Similarity float64 // TF-IDF cosine against the expanded query
	DomainFit  float64 // 1 when section and query domains match
	Quality    float64 // Composite informativeness signal
	Domain     string  // Detected domain label for this section
	Noise      bool    // Below the quality floor; excluded from ranking
}

// Passage is a short span within a ranked section judged relevant on its own.
type Passage struct {
	Text  string  `json:"refined_text"`
	Score float64 `json:"score"`
}

// RankedSection is one entry of the final output.
type RankedSection struct {
	Document string    `json:"document"`
	Title    string    `json:"section_title"`
	Page     int       `json:"page_number"`
	Rank     int       `json:"importance_rank"`
	Score    float64   `json:"relevance_score"`
	Domain   string    `json:"domain,omitempty"`
	Passages []Passage `json:"sub_sections"`
}

// SkippedDocument records a document excluded from the batch with a reason
// code: parse_failure, empty_structure or timeout.
type SkippedDocument struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// Metadata echoes the request inputs back to the caller.
type Metadata struct {
	BatchID   string         `json:"batch_id"`
	Persona   string         `json:"persona"`
	Job       string         `json:"job_to_be_done"`
	Documents []string       `json:"input_documents"`
	Challenge map[string]any `json:"challenge_info,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Stats summarizes what the batch did.
type Stats struct {
	DocumentsProcessed int                  `json:"documents_processed"`
	DocumentsSkipped   []SkippedDocument    `json:"documents_skipped"`
	PageGaps           map[string][]PageGap `json:"page_gaps,omitempty"`
	SectionsExtracted  int                  `json:"sections_extracted"`
	SectionsAfterNoise int                  `json:"sections_after_filtering"`
	SectionsRanked     int                  `json:"sections_ranked"`
	PerDocument        map[string]int       `json:"sections_per_document"`
	QueryDomain        string               `json:"query_domain"`
	Shortfall          string               `json:"shortfall,omitempty"`
}

// RankedResult is the final, immutable pipeline output.
type RankedResult struct {
	Metadata Metadata        `json:"metadata"`
	Sections []RankedSection `json:"extracted_sections"`
	Stats    Stats           `json:"processing_summary"`
}
