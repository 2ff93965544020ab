package config

import (
	"encoding/json"
	"fmt"
	"os"

	"raglobal-chat/internal/model"
)

// Question-set defaults applied when the optional fields are absent.
const (
	defaultThreshold         = 60
	defaultGreeting          = "Salam !"
	defaultFinalQualified    = "✅ Mabrouk !"
	defaultFinalFollowUp     = "ℹ️ À suivre…"
	defaultFinalNotQualified = "❌ Non qualifié."
)

// LoadQuestionSet reads and validates the qualification script. A missing or
// malformed file is fatal to engine construction, so errors here are returned
// rather than substituted.
func LoadQuestionSet(path string) (*model.QuestionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question set %s: %w", path, err)
	}

	var qs model.QuestionSet
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("question set %s: %w", path, err)
	}

	if len(qs.Questions) == 0 {
		return nil, fmt.Errorf("question set %s: no questions defined", path)
	}
	for i, q := range qs.Questions {
		if q.Prompt == "" {
			return nil, fmt.Errorf("question set %s: question %d has no prompt", path, i)
		}
		for _, kw := range q.Keywords {
			if kw.Keyword == "" {
				return nil, fmt.Errorf("question set %s: question %d has an empty keyword", path, i)
			}
		}
	}

	if qs.Threshold <= 0 {
		qs.Threshold = defaultThreshold
	}
	if qs.Greeting == "" {
		qs.Greeting = defaultGreeting
	}
	if qs.FinalQualified == "" {
		qs.FinalQualified = defaultFinalQualified
	}
	if qs.FinalFollowUp == "" {
		qs.FinalFollowUp = defaultFinalFollowUp
	}
	if qs.FinalNotQualified == "" {
		qs.FinalNotQualified = defaultFinalNotQualified
	}

	return &qs, nil
}
