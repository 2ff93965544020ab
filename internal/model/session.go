package model

import "time"

// Phase is the qualification dialogue's current stage.
type Phase string

const (
	PhaseService           Phase = "service"
	PhaseQualification     Phase = "qualification"
	PhasePostQualification Phase = "post_qualification"
)

// LogEntry is one timestamped utterance in a session's conversation log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
}

// SessionState is the per-identity conversation state. It is owned by the
// single caller identity it is keyed under and mutated only by the engine.
type SessionState struct {
	ID              string     `json:"id"`
	Phase           Phase      `json:"phase"`
	Score           int        `json:"score"`
	QuestionCursor  int        `json:"questionCursor"`
	ClientMessages  []string   `json:"clientMessages"`
	PendingQuestion *Question  `json:"pendingQuestion,omitempty"`
	Log             []LogEntry `json:"log"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewSessionState creates a fresh session in the service phase.
func NewSessionState(id string) *SessionState {
	now := time.Now()
	return &SessionState{
		ID:        id,
		Phase:     PhaseService,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
