package service

import (
	"strings"

	"raglobal-chat/internal/model"
)

// ScoreAnswer maps a raw answer to points for one question. The answer is
// lower-cased and the question's keywords are scanned in configured order;
// the first keyword found as a substring wins. Overlapping keywords resolve
// by first match, not best match. No dialect normalization is applied here.
func ScoreAnswer(q *model.Question, answer string) int {
	answer = strings.ToLower(answer)
	for _, kw := range q.Keywords {
		if strings.Contains(answer, kw.Keyword) {
			return kw.Score
		}
	}
	return q.DefaultScore
}
