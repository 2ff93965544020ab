package nlp

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vectorizer defaults, matched to the predictor training setup: word 1-3 grams
// capped at 10000 features.
const (
	DefaultNgramMin    = 1
	DefaultNgramMax    = 3
	DefaultMaxFeatures = 10000
)

var tokenRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

// SparseVector is a sparse TF-IDF document vector, indexed by vocabulary term.
type SparseVector map[int]float64

// Dot returns the dot product of two sparse vectors.
func (v SparseVector) Dot(other SparseVector) float64 {
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		sum += w * b[i]
	}
	return sum
}

// Norm returns the euclidean magnitude of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the normalized dot product of two vectors, or 0
// when either has zero magnitude.
func CosineSimilarity(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// Vectorizer turns text into l2-normalized TF-IDF vectors over a fitted
// n-gram vocabulary. All fields are exported so a fitted vectorizer can be
// persisted inside a predictor artifact and reloaded as-is.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramMin    int            `json:"ngramMin"`
	NgramMax    int            `json:"ngramMax"`
	MaxFeatures int            `json:"maxFeatures"`
}

// NewVectorizer returns an unfitted vectorizer with the default settings.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		NgramMin:    DefaultNgramMin,
		NgramMax:    DefaultNgramMax,
		MaxFeatures: DefaultMaxFeatures,
	}
}

// IsFitted reports whether Fit has produced a vocabulary.
func (v *Vectorizer) IsFitted() bool {
	return v != nil && len(v.Vocabulary) > 0
}

// terms tokenizes a document and expands the tokens into n-grams.
func (v *Vectorizer) terms(doc string) []string {
	tokens := tokenRe.FindAllString(strings.ToLower(doc), -1)
	var out []string
	for n := v.NgramMin; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit learns the vocabulary and inverse document frequencies from the corpus.
// When the corpus yields more distinct terms than MaxFeatures, the most
// frequent terms win; frequency ties break alphabetically for determinism.
func (v *Vectorizer) Fit(docs []string) {
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range v.terms(doc) {
			totalFreq[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totalFreq[terms[i]] != totalFreq[terms[j]] {
			return totalFreq[terms[i]] > totalFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	// Stable index assignment, independent of selection order.
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed inverse document frequency.
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
}

// Transform maps a document to its l2-normalized TF-IDF vector over the
// fitted vocabulary. Unknown terms are ignored.
func (v *Vectorizer) Transform(doc string) SparseVector {
	vec := make(SparseVector)
	if !v.IsFitted() {
		return vec
	}
	for _, term := range v.terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx]++
		}
	}
	for idx := range vec {
		vec[idx] *= v.IDF[idx]
	}
	if norm := vec.Norm(); norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// TransformAll transforms a batch of documents.
func (v *Vectorizer) TransformAll(docs []string) []SparseVector {
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// NumFeatures returns the fitted vocabulary size.
func (v *Vectorizer) NumFeatures() int {
	return len(v.IDF)
}
