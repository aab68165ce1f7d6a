package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Skip reason codes recorded for documents excluded from a batch.
const (
	ReasonParseFailure   = "parse_failure"
	ReasonEmptyStructure = "empty_structure"
	ReasonTimeout        = "timeout"
	ReasonUnsupported    = "unsupported_format"
)

// ErrNoDocuments is returned when every document in the batch failed to
// yield sections. Individual failures degrade gracefully; only total
// absence of usable input is fatal.
var ErrNoDocuments = errors.New("no documents produced usable sections")

// DocumentRef names one input document. Title is the declared title and may
// be empty.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Persona describes who is asking.
type Persona struct {
	Role string `json:"role"`
}

// Job describes what the persona needs to accomplish.
type Job struct {
	Task string `json:"task"`
}

// Request is the batch input: a document collection plus the persona and
// job-to-be-done driving relevance. Challenge is opaque caller metadata
// echoed into the output.
type Request struct {
	Challenge map[string]any `json:"challenge_info,omitempty"`
	Documents []DocumentRef  `json:"documents"`
	Persona   Persona        `json:"persona"`
	Job       Job            `json:"job_to_be_done"`
}

// ParseRequest decodes and validates a batch request.
func ParseRequest(r io.Reader) (*Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks structural requirements. An empty persona or task is not
// an error here; the scorer falls back to structural ranking for those.
func (r *Request) Validate() error {
	if len(r.Documents) == 0 {
		return errors.New("request has no documents")
	}
	seen := make(map[string]bool, len(r.Documents))
	for i, d := range r.Documents {
		name := strings.TrimSpace(d.Filename)
		if name == "" {
			return fmt.Errorf("document %d has no filename", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate document %q", name)
		}
		seen[name] = true
	}
	return nil
}
