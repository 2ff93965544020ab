package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/nlp"
	"raglobal-chat/internal/repository"
)

// minTrainingExamples is the smallest dataset the trainer accepts.
const minTrainingExamples = 5

var trainableStatuses = map[string]bool{
	model.StatusQualified:   true,
	model.StatusFollowUp:    true,
	model.StatusUnqualified: true,
}

// Trainer fits the status predictor from labeled historical leads and
// persists the resulting artifact.
type Trainer struct {
	leads        repository.LeadRepository
	artifactPath string
}

// NewTrainer creates a trainer writing artifacts to the given path.
func NewTrainer(leads repository.LeadRepository, artifactPath string) *Trainer {
	return &Trainer{
		leads:        leads,
		artifactPath: artifactPath,
	}
}

// buildDataset expands each labeled lead's contact messages into growing
// prefixes, so the classifier learns to predict the terminal status from
// partial conversations.
func (t *Trainer) buildDataset(leads []*model.Lead) (docs []string, statuses []string) {
	for _, lead := range leads {
		if !trainableStatuses[lead.Status] {
			continue
		}
		var clientMsgs []string
		for _, msg := range lead.Messages {
			if msg.SenderType == model.SenderContact && msg.Text != "" {
				clientMsgs = append(clientMsgs, msg.Text)
			}
		}
		for i := 1; i <= len(clientMsgs); i++ {
			docs = append(docs, strings.Join(clientMsgs[:i], predictionSeparator))
			statuses = append(statuses, lead.Status)
		}
	}
	return docs, statuses
}

// Train loads the leads, fits the TF-IDF vectorizer and the logistic
// classifier, and persists the new artifact atomically.
func (t *Trainer) Train(ctx context.Context) (*nlp.Artifact, error) {
	leads, err := t.leads.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leads: %w", err)
	}

	docs, statuses := t.buildDataset(leads)
	if len(docs) < minTrainingExamples {
		return nil, fmt.Errorf("not enough training data: %d examples, need %d", len(docs), minTrainingExamples)
	}

	// Stable class index assignment.
	classSet := make(map[string]bool)
	for _, s := range statuses {
		classSet[s] = true
	}
	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	vectorizer := nlp.NewVectorizer()
	vectorizer.Fit(docs)
	x := vectorizer.TransformAll(docs)

	labels := make([]int, len(statuses))
	for i, s := range statuses {
		labels[i] = classIdx[s]
	}

	classifier, err := nlp.TrainLogistic(x, labels, classes, vectorizer.NumFeatures(), nlp.DefaultTrainOptions())
	if err != nil {
		return nil, fmt.Errorf("fitting classifier: %w", err)
	}

	artifact := &nlp.Artifact{
		Version:    int(time.Now().Unix()),
		TrainedAt:  time.Now(),
		Samples:    len(docs),
		Vectorizer: vectorizer,
		Model:      classifier,
	}
	if err := artifact.Save(t.artifactPath); err != nil {
		return nil, fmt.Errorf("saving artifact: %w", err)
	}

	log.Printf("Trainer: fitted on %d examples from %d leads, classes %v", len(docs), len(leads), classes)
	return artifact, nil
}
