package service

import (
	"context"
	"log"
	"time"
)

// Freshness monitor defaults: check every five minutes, retrain once ten new
// conversations have arrived.
const (
	monitorInterval         = 5 * time.Minute
	minNewConversations     = 10
	monitorCountTimeout     = 10 * time.Second
	monitorTrainTimeout     = 2 * time.Minute
	monitorRetrieverTimeout = 30 * time.Second
)

// TrainingMonitor watches the lead collection and retrains the predictor when
// enough new conversations have accumulated. A fresh artifact is swapped into
// the predictor and the retriever snapshot is rebuilt against it.
type TrainingMonitor struct {
	trainer   *Trainer
	predictor *Predictor
	retriever *Retriever
	lastCount int64
}

// NewTrainingMonitor creates a monitor wired to the trainer, predictor and
// retriever it keeps fresh.
func NewTrainingMonitor(trainer *Trainer, predictor *Predictor, retriever *Retriever) *TrainingMonitor {
	return &TrainingMonitor{
		trainer:   trainer,
		predictor: predictor,
		retriever: retriever,
	}
}

// Run blocks until ctx is canceled, checking the lead count on a fixed
// interval. Call it from its own goroutine.
func (m *TrainingMonitor) Run(ctx context.Context) {
	countCtx, cancel := context.WithTimeout(ctx, monitorCountTimeout)
	count, err := m.trainer.leads.Count(countCtx)
	cancel()
	if err != nil {
		log.Printf("TrainingMonitor: initial count failed: %v", err)
	} else {
		m.lastCount = count
		log.Printf("TrainingMonitor: started with %d conversations", count)
	}

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("TrainingMonitor: stopped")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *TrainingMonitor) check(ctx context.Context) {
	countCtx, cancel := context.WithTimeout(ctx, monitorCountTimeout)
	count, err := m.trainer.leads.Count(countCtx)
	cancel()
	if err != nil {
		log.Printf("TrainingMonitor: count failed: %v", err)
		return
	}

	newCount := count - m.lastCount
	if newCount < minNewConversations {
		log.Printf("TrainingMonitor: %d/%d new conversations, waiting", newCount, minNewConversations)
		return
	}

	log.Printf("TrainingMonitor: %d new conversations, retraining", newCount)
	trainCtx, cancel := context.WithTimeout(ctx, monitorTrainTimeout)
	artifact, err := m.trainer.Train(trainCtx)
	cancel()
	if err != nil {
		log.Printf("TrainingMonitor: retraining failed: %v", err)
		return
	}

	m.predictor.Swap(artifact)
	m.lastCount = count

	rebuildCtx, cancel := context.WithTimeout(ctx, monitorRetrieverTimeout)
	defer cancel()
	if err := m.retriever.Rebuild(rebuildCtx, artifact.Vectorizer); err != nil {
		log.Printf("TrainingMonitor: retriever rebuild failed: %v", err)
	}
}
