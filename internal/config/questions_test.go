package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuestionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQuestionSet(t *testing.T) {
	path := writeQuestionFile(t, `{
		"questions": [
			{
				"id": "bac",
				"text_tn": "3andek el bac ?",
				"keywords": [
					{"keyword": "oui", "score": 20},
					{"keyword": "chwaya", "score": 10}
				],
				"default_score": 0
			},
			{
				"id": "budget",
				"text_tn": "3andek budget ?",
				"keywords": [{"keyword": "oui", "score": 20}],
				"default_score": 5
			}
		],
		"qualification_threshold": 40,
		"greeting_tn": "Ahla !"
	}`)

	qs, err := LoadQuestionSet(path)
	require.NoError(t, err)

	require.Len(t, qs.Questions, 2)
	assert.Equal(t, "3andek el bac ?", qs.Questions[0].Prompt)
	assert.Equal(t, 40, qs.Threshold)
	assert.Equal(t, "Ahla !", qs.Greeting)
	assert.Equal(t, 5, qs.Questions[1].DefaultScore)

	// Keyword order is the scoring contract and must survive loading.
	require.Len(t, qs.Questions[0].Keywords, 2)
	assert.Equal(t, "oui", qs.Questions[0].Keywords[0].Keyword)
	assert.Equal(t, "chwaya", qs.Questions[0].Keywords[1].Keyword)

	// Optional messages fall back to defaults.
	assert.Equal(t, defaultFinalQualified, qs.FinalQualified)
	assert.Equal(t, defaultFinalFollowUp, qs.FinalFollowUp)
	assert.Equal(t, defaultFinalNotQualified, qs.FinalNotQualified)
}

func TestLoadQuestionSetAppliesThresholdDefault(t *testing.T) {
	path := writeQuestionFile(t, `{
		"questions": [{"text_tn": "q", "keywords": [{"keyword": "oui", "score": 20}]}]
	}`)

	qs, err := LoadQuestionSet(path)
	require.NoError(t, err)
	assert.Equal(t, defaultThreshold, qs.Threshold)
	assert.Equal(t, defaultGreeting, qs.Greeting)
}

func TestLoadQuestionSetMissingFile(t *testing.T) {
	_, err := LoadQuestionSet(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadQuestionSetMalformedJSON(t *testing.T) {
	path := writeQuestionFile(t, `{"questions": [`)
	_, err := LoadQuestionSet(path)
	assert.Error(t, err)
}

func TestLoadQuestionSetValidation(t *testing.T) {
	t.Run("no questions", func(t *testing.T) {
		path := writeQuestionFile(t, `{"questions": []}`)
		_, err := LoadQuestionSet(path)
		assert.ErrorContains(t, err, "no questions")
	})

	t.Run("missing prompt", func(t *testing.T) {
		path := writeQuestionFile(t, `{"questions": [{"keywords": []}]}`)
		_, err := LoadQuestionSet(path)
		assert.ErrorContains(t, err, "no prompt")
	})

	t.Run("empty keyword", func(t *testing.T) {
		path := writeQuestionFile(t, `{
			"questions": [{"text_tn": "q", "keywords": [{"keyword": "", "score": 10}]}]
		}`)
		_, err := LoadQuestionSet(path)
		assert.ErrorContains(t, err, "empty keyword")
	})
}
