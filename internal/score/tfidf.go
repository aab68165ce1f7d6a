package score

import (
	"math"
	"sort"
)

// VectorSpace is a TF-IDF model over one batch of section token lists.
// Vocabulary order is sorted and all iteration is index-ordered, so two
// builds over identical input produce bit-identical vectors and scores.
type VectorSpace struct {
	Terms []string
	index map[string]int
	idf   []float64

	// Per-document sparse vectors, entries sorted by term index.
	docs  [][]entry
	norms []float64
}

type entry struct {
	term int
	w    float64
}

// NewVectorSpace builds the vector space for a batch of tokenized documents.
func NewVectorSpace(docTokens [][]string) *VectorSpace {
	n := len(docTokens)

	df := make(map[string]int)
	for _, tokens := range docTokens {
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vs := &VectorSpace{
		Terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
		docs:  make([][]entry, n),
		norms: make([]float64, n),
	}
	for i, t := range terms {
		vs.index[t] = i
		// Smoothed inverse document frequency.
		vs.idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	for d, tokens := range docTokens {
		tf := make(map[int]int, len(tokens))
		for _, t := range tokens {
			tf[vs.index[t]]++
		}
		idxs := make([]int, 0, len(tf))
		for i := range tf {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)

		vec := make([]entry, 0, len(idxs))
		var norm float64
		for _, i := range idxs {
			w := float64(tf[i]) * vs.idf[i]
			vec = append(vec, entry{term: i, w: w})
			norm += w * w
		}
		vs.docs[d] = vec
		vs.norms[d] = math.Sqrt(norm)
	}
	return vs
}

// DocCount returns the number of documents in the space.
func (vs *VectorSpace) DocCount() int {
	return len(vs.docs)
}

// QueryVector projects a term list into the space as a dense TF-IDF vector.
// Terms outside the vocabulary are ignored.
func (vs *VectorSpace) QueryVector(terms []string) []float64 {
	vec := make([]float64, len(vs.Terms))
	for _, t := range terms {
		if i, ok := vs.index[t]; ok {
			vec[i] += vs.idf[i]
		}
	}
	return vec
}

// CosineDoc computes cosine similarity between document d and a dense query
// vector.
func (vs *VectorSpace) CosineDoc(d int, q []float64) float64 {
	if d < 0 || d >= len(vs.docs) || vs.norms[d] == 0 {
		return 0
	}
	var dot float64
	for _, e := range vs.docs[d] {
		dot += e.w * q[e.term]
	}
	qn := norm(q)
	if qn == 0 {
		return 0
	}
	return dot / (vs.norms[d] * qn)
}

// CosineDense computes cosine similarity between two dense vectors of equal
// length.
func CosineDense(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// SimilarTerms returns up to m vocabulary terms most similar to the query
// terms, measured by cosine between each term's document-frequency vector
// and the query's aggregate document vector. Terms already in the query are
// never returned. Ties break alphabetically.
func (vs *VectorSpace) SimilarTerms(queryTerms []string, m int) []string {
	if m <= 0 || len(vs.docs) == 0 {
		return nil
	}
	inQuery := make(map[int]bool, len(queryTerms))
	for _, t := range queryTerms {
		if i, ok := vs.index[t]; ok {
			inQuery[i] = true
		}
	}
	if len(inQuery) == 0 {
		return nil
	}

	// Aggregate query presence across documents.
	qd := make([]float64, len(vs.docs))
	for d, vec := range vs.docs {
		for _, e := range vec {
			if inQuery[e.term] {
				qd[d] += e.w
			}
		}
	}
	qdNorm := norm(qd)
	if qdNorm == 0 {
		return nil
	}

	type scored struct {
		term string
		sim  float64
	}
	var candidates []scored

	col := make([]float64, len(vs.docs))
	for ti, term := range vs.Terms {
		if inQuery[ti] {
			continue
		}
		for i := range col {
			col[i] = 0
		}
		for d, vec := range vs.docs {
			for _, e := range vec {
				if e.term == ti {
					col[d] = e.w
					break
				}
				if e.term > ti {
					break
				}
			}
		}
		cn := norm(col)
		if cn == 0 {
			continue
		}
		var dot float64
		for d := range col {
			dot += col[d] * qd[d]
		}
		sim := dot / (cn * qdNorm)
		if sim > 0 {
			candidates = append(candidates, scored{term: term, sim: sim})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.term
	}
	return out
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
