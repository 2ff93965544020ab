package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/nlp"
	"raglobal-chat/internal/repository"
)

// SimilarityThreshold is the minimum cosine similarity for a historical
// question to count as a match.
const SimilarityThreshold = 0.25

// knowledgeSampleSize bounds how many corpus pairs go into the generative
// fallback prompt.
const knowledgeSampleSize = 20

// fallbackKeywords drive the keyword tier, scanned in this exact order.
var fallbackKeywords = []string{"bourse", "bac", "master", "info", "anglais", "flywire", "visa", "engineering"}

// corpusSnapshot is an immutable view of the knowledge base: the pairs, their
// normalized questions and their precomputed TF-IDF vectors. Rebuilds produce
// a fresh snapshot and swap it in; in-flight queries keep reading the old one.
type corpusSnapshot struct {
	pairs      []model.KnowledgePair
	normalized []string
	vectors    []nlp.SparseVector
	vectorizer *nlp.Vectorizer
}

// Retriever answers free-form questions from the historical knowledge base
// with a three-tier fallback chain: vector similarity, domain keywords, then
// the generation collaborator.
type Retriever struct {
	leads    repository.LeadRepository
	gemini   Generator
	snapshot atomic.Pointer[corpusSnapshot]
}

// NewRetriever builds a retriever and loads the initial corpus snapshot. An
// unreachable store degrades to an empty corpus: the retriever becomes a
// pass-through that always signals no match.
func NewRetriever(ctx context.Context, leads repository.LeadRepository, gemini Generator, vectorizer *nlp.Vectorizer) *Retriever {
	r := &Retriever{
		leads:  leads,
		gemini: gemini,
	}
	if err := r.Rebuild(ctx, vectorizer); err != nil {
		log.Printf("Retriever: knowledge base unavailable, starting with empty corpus: %v", err)
		r.snapshot.Store(&corpusSnapshot{vectorizer: vectorizer})
	}
	return r
}

// ExtractKnowledgePairs mines (question, answer) pairs from stored leads:
// each contact utterance followed immediately by an operator reply.
func ExtractKnowledgePairs(leads []*model.Lead) []model.KnowledgePair {
	var pairs []model.KnowledgePair
	for _, lead := range leads {
		for i := 0; i+1 < len(lead.Messages); i++ {
			if lead.Messages[i].SenderType != model.SenderContact {
				continue
			}
			if lead.Messages[i+1].SenderType != model.SenderOperator {
				continue
			}
			question := strings.TrimSpace(lead.Messages[i].Text)
			answer := strings.TrimSpace(lead.Messages[i+1].Text)
			if question != "" && answer != "" {
				pairs = append(pairs, model.KnowledgePair{Question: question, Answer: answer})
			}
		}
	}
	return pairs
}

// Rebuild loads the knowledge base from the store and swaps in a new
// snapshot. On error the current snapshot stays untouched.
func (r *Retriever) Rebuild(ctx context.Context, vectorizer *nlp.Vectorizer) error {
	if r.leads == nil {
		return fmt.Errorf("no lead repository configured")
	}
	leads, err := r.leads.GetAll(ctx)
	if err != nil {
		return err
	}

	pairs := ExtractKnowledgePairs(leads)
	snap := &corpusSnapshot{
		pairs:      pairs,
		normalized: make([]string, len(pairs)),
		vectors:    make([]nlp.SparseVector, len(pairs)),
		vectorizer: vectorizer,
	}
	for i, pair := range pairs {
		snap.normalized[i] = nlp.Normalize(pair.Question)
		if vectorizer.IsFitted() {
			snap.vectors[i] = vectorizer.Transform(snap.normalized[i])
		}
	}

	r.snapshot.Store(snap)
	log.Printf("Retriever: loaded %d knowledge pairs", len(pairs))
	return nil
}

// CorpusSize returns the number of knowledge pairs in the current snapshot.
func (r *Retriever) CorpusSize() int {
	if snap := r.snapshot.Load(); snap != nil {
		return len(snap.pairs)
	}
	return 0
}

// FindResponse returns the best historical answer for the query, or false
// when no tier produced a match. It never returns an error: every failure
// inside the chain degrades to no match.
func (r *Retriever) FindResponse(ctx context.Context, query string) (string, bool) {
	snap := r.snapshot.Load()
	if snap == nil || len(snap.pairs) == 0 || !snap.vectorizer.IsFitted() {
		return "", false
	}

	cleaned := nlp.Normalize(query)
	if cleaned == "" {
		return "", false
	}

	// Tier 1: cosine similarity over the precomputed corpus vectors.
	queryVec := snap.vectorizer.Transform(cleaned)
	if queryVec.Norm() == 0 {
		return "", false
	}

	bestScore := -1.0
	bestIdx := -1
	for i, vec := range snap.vectors {
		if vec.Norm() == 0 {
			continue
		}
		// Strict comparison keeps the first-seen maximum on ties.
		if sim := nlp.CosineSimilarity(queryVec, vec); sim > bestScore {
			bestScore = sim
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore >= SimilarityThreshold {
		return snap.pairs[bestIdx].Answer, true
	}

	// Tier 2: first listed keyword present in the query, first corpus pair
	// whose normalized question also contains it.
	for _, kw := range fallbackKeywords {
		if !strings.Contains(cleaned, kw) {
			continue
		}
		for i, nq := range snap.normalized {
			if strings.Contains(nq, kw) {
				return snap.pairs[i].Answer, true
			}
		}
	}

	// Tier 3: let the generation collaborator pick from a bounded sample.
	answer, err := r.gemini.GenerateReply(ctx, r.buildSemanticPrompt(snap, query), "")
	if err != nil {
		return "", false
	}
	return answer, true
}

func (r *Retriever) buildSemanticPrompt(snap *corpusSnapshot, query string) string {
	sample := snap.pairs
	if len(sample) > knowledgeSampleSize {
		sample = sample[:knowledgeSampleSize]
	}

	var sb strings.Builder
	for _, pair := range sample {
		fmt.Fprintf(&sb, "Q: %s\nR: %s\n---\n", pair.Question, pair.Answer)
	}

	return fmt.Sprintf(`Trouve la meilleure réponse parmi celles-ci :
%s
Question du client : "%s"

Règles :
1. Ne réponds qu'avec une réponse de la base
2. Reformule-la en tunisien latin naturel
3. Si aucune pertinente, dis : "%s"`, sb.String(), query, PlaceholderResponse)
}
