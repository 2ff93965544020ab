package model

// Prediction is the advisory status hint attached to a turn once enough of the
// conversation has been seen. It never alters phase or score.
type Prediction struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// TurnResult is the structured outcome of one processed utterance.
type TurnResult struct {
	Response        string      `json:"response"`
	Score           int         `json:"score"`
	CurrentQuestion int         `json:"current_question"`
	TotalQuestions  int         `json:"total_questions"`
	Phase           Phase       `json:"phase"`
	Status          string      `json:"status,omitempty"`
	Prediction      *Prediction `json:"prediction,omitempty"`
}
