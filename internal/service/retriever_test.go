package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/nlp"
)

// corpusVectorizer fits the vectorizer the way the trainer does, on the
// normalized corpus questions.
func corpusVectorizer(pairs []model.KnowledgePair) *nlp.Vectorizer {
	docs := make([]string, len(pairs))
	for i, p := range pairs {
		docs[i] = nlp.Normalize(p.Question)
	}
	v := nlp.NewVectorizer()
	v.Fit(docs)
	return v
}

func TestExtractKnowledgePairs(t *testing.T) {
	leads := []*model.Lead{
		makeLead("Qualified",
			"Chnowa el frais mta3 el visa ?", "350 dinar fi flywire",
			"W el bourse ?", "El bourse tghatti 50%",
		),
		// Two contact messages in a row: only the second forms a pair.
		{Messages: []model.LeadMessage{
			{SenderType: model.SenderContact, Text: "Salam"},
			{SenderType: model.SenderContact, Text: "Chkoun ynajem y3aweni ?"},
			{SenderType: model.SenderOperator, Text: "Ana hine"},
		}},
		// Blank texts are dropped.
		{Messages: []model.LeadMessage{
			{SenderType: model.SenderContact, Text: "   "},
			{SenderType: model.SenderOperator, Text: "réponse"},
		}},
	}

	pairs := ExtractKnowledgePairs(leads)
	require.Len(t, pairs, 3)
	assert.Equal(t, "Chnowa el frais mta3 el visa ?", pairs[0].Question)
	assert.Equal(t, "350 dinar fi flywire", pairs[0].Answer)
	assert.Equal(t, "W el bourse ?", pairs[1].Question)
	assert.Equal(t, "Chkoun ynajem y3aweni ?", pairs[2].Question)
}

func TestRetrieverSimilarityTierExactQuestion(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified",
			"Chnowa el frais mta3 el visa ?", "350 dinar fi flywire",
			"Kadech el moyenne bech na9ra master ?", "12 wla akther",
		),
	}}
	gen := &stubGenerator{err: errors.New("must not be called")}
	pairs := ExtractKnowledgePairs(repo.leads)
	r := NewRetriever(context.Background(), repo, gen, corpusVectorizer(pairs))
	require.Equal(t, 2, r.CorpusSize())

	// A query identical to a stored question matches at cosine 1.0.
	answer, ok := r.FindResponse(context.Background(), "Chnowa el frais mta3 el visa ?")
	require.True(t, ok)
	assert.Equal(t, "350 dinar fi flywire", answer)
	assert.Zero(t, gen.calls)

	answer, ok = r.FindResponse(context.Background(), "Kadech el moyenne bech na9ra master ?")
	require.True(t, ok)
	assert.Equal(t, "12 wla akther", answer)
}

func TestRetrieverSimilarityTieKeepsFirstPair(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified", "Chnowa el bourse ?", "première réponse"),
		makeLead("Qualified", "Chnowa el bourse ?", "deuxième réponse"),
	}}
	gen := &stubGenerator{err: errors.New("unused")}
	pairs := ExtractKnowledgePairs(repo.leads)
	r := NewRetriever(context.Background(), repo, gen, corpusVectorizer(pairs))

	answer, ok := r.FindResponse(context.Background(), "Chnowa el bourse ?")
	require.True(t, ok)
	assert.Equal(t, "première réponse", answer)
}

func TestRetrieverKeywordTier(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified",
			"Kifech nekhou el bourse ?", "El bourse tghatti 50%",
			"Wakteh tebda el procédure ?", "Fel septembre",
		),
	}}
	gen := &stubGenerator{err: errors.New("unused")}

	// Vocabulary disjoint from the corpus questions: every corpus vector is
	// zero, so the similarity tier cannot match and escalation happens.
	v := nlp.NewVectorizer()
	v.Fit([]string{"zeta"})
	r := NewRetriever(context.Background(), repo, gen, v)

	answer, ok := r.FindResponse(context.Background(), "zeta bourse")
	require.True(t, ok)
	assert.Equal(t, "El bourse tghatti 50%", answer)
	assert.Zero(t, gen.calls)
}

func TestRetrieverGenerativeTier(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified", "Kifech nekhou menha ?", "b technique spécifique"),
	}}
	gen := &stubGenerator{reply: "réponse générée"}

	v := nlp.NewVectorizer()
	v.Fit([]string{"zeta"})
	r := NewRetriever(context.Background(), repo, gen, v)

	answer, ok := r.FindResponse(context.Background(), "zeta chnowa")
	require.True(t, ok)
	assert.Equal(t, "réponse générée", answer)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastPrompt, "Kifech nekhou menha ?")
	assert.Contains(t, gen.lastPrompt, "zeta chnowa")
	assert.Contains(t, gen.lastPrompt, PlaceholderResponse)
}

func TestRetrieverGenerativeTierErrorDegradesToNoMatch(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified", "Kifech nekhou menha ?", "réponse"),
	}}
	gen := &stubGenerator{err: errors.New("api down")}

	v := nlp.NewVectorizer()
	v.Fit([]string{"zeta"})
	r := NewRetriever(context.Background(), repo, gen, v)

	_, ok := r.FindResponse(context.Background(), "zeta chnowa")
	assert.False(t, ok)
}

func TestRetrieverDegenerateInputs(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified", "Chnowa el bourse ?", "réponse"),
	}}
	gen := &stubGenerator{err: errors.New("unused")}
	pairs := ExtractKnowledgePairs(repo.leads)
	r := NewRetriever(context.Background(), repo, gen, corpusVectorizer(pairs))

	// Punctuation-only query normalizes to nothing.
	_, ok := r.FindResponse(context.Background(), "?!.")
	assert.False(t, ok)

	// Query entirely outside the vocabulary yields a zero vector.
	_, ok = r.FindResponse(context.Background(), "qqqq wwww")
	assert.False(t, ok)
}

func TestRetrieverEmptyCorpus(t *testing.T) {
	r := NewRetriever(context.Background(), &stubLeadRepo{}, &stubGenerator{}, nlp.NewVectorizer())
	assert.Zero(t, r.CorpusSize())

	_, ok := r.FindResponse(context.Background(), "chnowa el bourse ?")
	assert.False(t, ok)
}

func TestRetrieverUnreachableStoreStartsEmpty(t *testing.T) {
	repo := &stubLeadRepo{err: errors.New("mongo down")}
	r := NewRetriever(context.Background(), repo, &stubGenerator{}, nlp.NewVectorizer())

	assert.Zero(t, r.CorpusSize())
	_, ok := r.FindResponse(context.Background(), "bourse")
	assert.False(t, ok)
}

func TestRetrieverRebuildFailureKeepsSnapshot(t *testing.T) {
	repo := &stubLeadRepo{leads: []*model.Lead{
		makeLead("Qualified", "Chnowa el bourse ?", "réponse"),
	}}
	gen := &stubGenerator{err: errors.New("unused")}
	pairs := ExtractKnowledgePairs(repo.leads)
	v := corpusVectorizer(pairs)
	r := NewRetriever(context.Background(), repo, gen, v)
	require.Equal(t, 1, r.CorpusSize())

	repo.err = errors.New("mongo down")
	assert.Error(t, r.Rebuild(context.Background(), v))

	// The old snapshot still serves.
	assert.Equal(t, 1, r.CorpusSize())
	answer, ok := r.FindResponse(context.Background(), "Chnowa el bourse ?")
	require.True(t, ok)
	assert.Equal(t, "réponse", answer)
}
