package model

import "time"

// Sender roles on stored lead messages.
const (
	SenderContact  = "contact" // the prospective student
	SenderOperator = "user"    // the agency operator
)

// Terminal lead outcomes. StatusInProgress is the neutral label returned when
// the predictor is unavailable.
const (
	StatusQualified   = "Qualified"
	StatusFollowUp    = "To follow up"
	StatusUnqualified = "Unqualified"
	StatusInProgress  = "En cours"
)

// LeadMessage is one utterance in a stored conversation.
type LeadMessage struct {
	SenderType string    `json:"senderType" bson:"sender_type"`
	Text       string    `json:"text" bson:"text"`
	Timestamp  time.Time `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Lead is a historical conversation record with its terminal outcome label.
type Lead struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	Contact   string        `json:"contact,omitempty" bson:"contact,omitempty"`
	Status    string        `json:"status,omitempty" bson:"status,omitempty"`
	Messages  []LeadMessage `json:"messages" bson:"messages"`
	CreatedAt time.Time     `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

// KnowledgePair is a historical (question, answer) pair mined from a lead:
// a contact utterance followed immediately by an operator reply.
type KnowledgePair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
