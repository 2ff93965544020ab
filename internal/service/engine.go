package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/session"
)

// PlaceholderResponse is the generic answer emitted when no tier of the
// system produced anything better.
const PlaceholderResponse = "On va te répondre bientôt, merci pour ta patience !"

// qualificationTriggers start the scripted flow when seen in the service
// phase.
var qualificationTriggers = []string{
	"bourse", "scholarship", "qualifié", "eligible", "chance",
	"score", "moyenne", "10 wla akther", "bac", "baccalauréat",
	"est-ce que je peux", "puis-je", "je suis eligible", "je peux avoir",
}

// optOutCues signal the student wants their pending question answered instead
// of answering ours.
var optOutCues = []string{"non respond", "repond", "ignore", "pas maintenant"}

// Engine drives the qualification dialogue: it owns session state, runs the
// phase machine and calls the scorer, predictor and retriever at the right
// points. One call processes one utterance to completion.
type Engine struct {
	questions *model.QuestionSet
	gemini    Generator
	retriever *Retriever
	predictor *Predictor
	sessions  session.Store
}

// NewEngine wires the engine. A nil or empty question set is a construction
// error: the engine cannot run without its script.
func NewEngine(questions *model.QuestionSet, gemini Generator, retriever *Retriever, predictor *Predictor, sessions session.Store) (*Engine, error) {
	if questions == nil || len(questions.Questions) == 0 {
		return nil, fmt.Errorf("engine requires a non-empty question set")
	}
	return &Engine{
		questions: questions,
		gemini:    gemini,
		retriever: retriever,
		predictor: predictor,
		sessions:  sessions,
	}, nil
}

// ProcessMessage runs one conversation turn for the given caller identity.
// It always returns a usable result: collaborator failures degrade to
// fallback text and never abort the turn.
func (e *Engine) ProcessMessage(ctx context.Context, identity, message string) *model.TurnResult {
	st, err := e.sessions.Get(ctx, identity)
	if err != nil {
		log.Printf("Engine: session lookup for %s failed (%v), starting fresh", identity, err)
	}
	if st == nil {
		st = model.NewSessionState(identity)
	}

	st.Log = append(st.Log, model.LogEntry{
		Timestamp: time.Now(),
		Sender:    "user",
		Text:      message,
	})
	st.ClientMessages = append(st.ClientMessages, message)

	res := &model.TurnResult{
		Score:           st.Score,
		CurrentQuestion: st.QuestionCursor + 1,
		TotalQuestions:  len(e.questions.Questions),
		Phase:           st.Phase,
	}

	// Advisory status hint once enough of the conversation has been seen.
	// Never alters phase or score.
	if len(st.ClientMessages) >= 2 && e.predictor.IsLoaded() {
		status, confidence := e.predictor.Predict(st.ClientMessages)
		res.Prediction = &model.Prediction{Status: status, Confidence: confidence}
	}

	// First utterance of a session: greet, touch nothing else.
	if len(st.ClientMessages) == 1 {
		res.Response = e.questions.Greeting
		return e.finish(ctx, st, res)
	}

	// Opt-out while a question is pending: answer the pending question's own
	// text from the knowledge base instead of insisting.
	if containsAny(message, optOutCues) && st.PendingQuestion != nil {
		if answer, ok := e.retriever.FindResponse(ctx, st.PendingQuestion.Prompt); ok {
			res.Response = answer
			st.PendingQuestion = nil
		} else {
			res.Response = PlaceholderResponse
		}
		return e.finish(ctx, st, res)
	}

	// Qualification trigger: start the scripted flow.
	if st.Phase == model.PhaseService && containsAny(message, qualificationTriggers) {
		st.Phase = model.PhaseQualification
		st.QuestionCursor = 0
		res.Response = e.paraphraseQuestion(ctx, e.questions.Questions[0].Prompt)
		return e.finish(ctx, st, res)
	}

	// Scripted flow: score the answer, advance, ask the next question or
	// close out with the outcome bucket.
	if st.Phase == model.PhaseQualification {
		if st.QuestionCursor < len(e.questions.Questions) {
			q := &e.questions.Questions[st.QuestionCursor]
			st.Score += ScoreAnswer(q, message)
			res.Score = st.Score
			st.QuestionCursor++

			if st.QuestionCursor < len(e.questions.Questions) {
				next := e.questions.Questions[st.QuestionCursor]
				st.PendingQuestion = &next
				res.Response = e.paraphraseQuestion(ctx, next.Prompt)
			} else {
				finalMsg, finalStatus := e.finalOutcome(st.Score)
				res.Response = fmt.Sprintf("%s\n📊 Score final: %d", finalMsg, st.Score)
				res.Status = finalStatus
				st.Phase = model.PhasePostQualification
			}
		}
		return e.finish(ctx, st, res)
	}

	// Free-form answering in the service and post-qualification phases.
	if st.Phase == model.PhaseService || st.Phase == model.PhasePostQualification {
		if answer, ok := e.retriever.FindResponse(ctx, message); ok {
			res.Response = e.paraphraseAnswer(ctx, answer)
		} else {
			res.Response = PlaceholderResponse
		}
	}

	return e.finish(ctx, st, res)
}

// finalOutcome buckets the final score against the qualification threshold.
func (e *Engine) finalOutcome(score int) (message, status string) {
	switch {
	case score >= e.questions.Threshold:
		return e.questions.FinalQualified, model.StatusQualified
	case score*2 >= e.questions.Threshold:
		return e.questions.FinalFollowUp, model.StatusFollowUp
	default:
		return e.questions.FinalNotQualified, model.StatusUnqualified
	}
}

// paraphraseQuestion asks Gemini to rephrase a scripted question; the raw
// prompt text is the guaranteed fallback.
func (e *Engine) paraphraseQuestion(ctx context.Context, prompt string) string {
	out, err := e.gemini.GenerateReply(ctx, fmt.Sprintf("Reformule naturellement : '%s'", prompt), "")
	if err != nil {
		return prompt
	}
	return out
}

// paraphraseAnswer rephrases a retrieved historical answer into a natural
// dialect register; the raw answer is the guaranteed fallback.
func (e *Engine) paraphraseAnswer(ctx context.Context, answer string) string {
	out, err := e.gemini.GenerateReply(ctx, fmt.Sprintf("Reformule en tunisien latin naturel : '%s'", answer), "")
	if err != nil {
		return answer
	}
	return out
}

// finish persists the session and returns the result. A failing store is
// logged, not surfaced: the turn already has its response.
func (e *Engine) finish(ctx context.Context, st *model.SessionState, res *model.TurnResult) *model.TurnResult {
	st.UpdatedAt = time.Now()
	if err := e.sessions.Put(ctx, st); err != nil {
		log.Printf("Engine: failed to persist session %s: %v", st.ID, err)
	}
	return res
}

func containsAny(message string, cues []string) bool {
	message = strings.ToLower(message)
	for _, cue := range cues {
		if strings.Contains(message, cue) {
			return true
		}
	}
	return false
}
