package service

import (
	"context"
	"time"

	"raglobal-chat/internal/model"
)

// stubLeadRepo is an in-memory LeadRepository for tests.
type stubLeadRepo struct {
	leads []*model.Lead
	err   error
}

func (s *stubLeadRepo) GetAll(_ context.Context) ([]*model.Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.leads, nil
}

func (s *stubLeadRepo) Count(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.leads)), nil
}

func (s *stubLeadRepo) Insert(_ context.Context, lead *model.Lead) error {
	if s.err != nil {
		return s.err
	}
	s.leads = append(s.leads, lead)
	return nil
}

// stubGenerator records the last prompt and returns a canned reply or error.
type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubGenerator) GenerateReply(_ context.Context, question, _ string) (string, error) {
	s.calls++
	s.lastPrompt = question
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// makeLead builds a labeled lead from alternating contact/operator texts.
func makeLead(status string, texts ...string) *model.Lead {
	lead := &model.Lead{
		Status:    status,
		CreatedAt: time.Now(),
	}
	for i, text := range texts {
		sender := model.SenderContact
		if i%2 == 1 {
			sender = model.SenderOperator
		}
		lead.Messages = append(lead.Messages, model.LeadMessage{
			SenderType: sender,
			Text:       text,
			Timestamp:  time.Now(),
		})
	}
	return lead
}

// testQuestionSet is a three-question script with a threshold of 60.
func testQuestionSet() *model.QuestionSet {
	return &model.QuestionSet{
		Questions: []model.Question{
			{
				ID:           "bac",
				Prompt:       "3andek el bac ?",
				Keywords:     []model.KeywordScore{{Keyword: "oui", Score: 20}, {Keyword: "chwaya", Score: 10}},
				DefaultScore: 0,
			},
			{
				ID:           "anglais",
				Prompt:       "Kifech el anglais mte3ek ?",
				Keywords:     []model.KeywordScore{{Keyword: "oui", Score: 20}, {Keyword: "chwaya", Score: 10}},
				DefaultScore: 0,
			},
			{
				ID:           "budget",
				Prompt:       "3andek budget lel frais ?",
				Keywords:     []model.KeywordScore{{Keyword: "oui", Score: 20}, {Keyword: "chwaya", Score: 10}},
				DefaultScore: 0,
			},
		},
		Threshold:         60,
		Greeting:          "Salam ! Mar7be bik.",
		FinalQualified:    "Mabrouk, profil mte3ek ymchi !",
		FinalFollowUp:     "Bech net2ab3ou m3ak.",
		FinalNotQualified: "Désolé, el profil ma ymchich tawa.",
	}
}
