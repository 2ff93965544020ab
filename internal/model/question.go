package model

// KeywordScore binds one answer keyword to the points it awards. Keywords are
// scanned in configuration order and the first match wins, so slice order is
// part of the scoring contract.
type KeywordScore struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
}

// Question is a single scripted qualification question.
type Question struct {
	ID           string         `json:"id"`
	Prompt       string         `json:"text_tn"`
	Keywords     []KeywordScore `json:"keywords"`
	DefaultScore int            `json:"default_score"`
}

// QuestionSet is the full qualification script: the ordered questions, the
// score threshold separating the outcome buckets, and the fixed message
// templates sent around the scripted flow.
type QuestionSet struct {
	Questions         []Question `json:"questions"`
	Threshold         int        `json:"qualification_threshold"`
	Greeting          string     `json:"greeting_tn"`
	FinalQualified    string     `json:"final_qualified_tn"`
	FinalFollowUp     string     `json:"final_followup_tn"`
	FinalNotQualified string     `json:"final_not_qualified_tn"`
}
