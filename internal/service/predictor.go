package service

import (
	"log"
	"strings"
	"sync/atomic"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/nlp"
)

// predictionSeparator joins the ordered contact utterances into the single
// document the classifier was trained on.
const predictionSeparator = " ||| "

// Predictor wraps the trained status classification artifact. A missing or
// corrupt artifact leaves the predictor unavailable; predictions then degrade
// to the neutral in-progress result instead of failing.
type Predictor struct {
	artifact atomic.Pointer[nlp.Artifact]
}

// NewPredictor loads the artifact from disk. Absence is non-fatal.
func NewPredictor(path string) *Predictor {
	p := &Predictor{}
	artifact, err := nlp.LoadArtifact(path)
	if err != nil {
		log.Printf("Predictor: artifact not loaded (%v), predictions disabled", err)
		return p
	}
	p.artifact.Store(artifact)
	log.Printf("Predictor: loaded artifact v%d (%d samples, classes %v)",
		artifact.Version, artifact.Samples, artifact.Model.Classes)
	return p
}

// IsLoaded reports whether a usable artifact is present.
func (p *Predictor) IsLoaded() bool {
	return p.artifact.Load() != nil
}

// Artifact returns the current artifact, or nil when unavailable.
func (p *Predictor) Artifact() *nlp.Artifact {
	return p.artifact.Load()
}

// Swap atomically replaces the artifact with a newly trained one.
func (p *Predictor) Swap(artifact *nlp.Artifact) {
	p.artifact.Store(artifact)
}

// Predict returns the predicted outcome label and its confidence for a
// partial conversation. It never fails: any degenerate input or model state
// yields the neutral result.
func (p *Predictor) Predict(clientMessages []string) (string, float64) {
	artifact := p.artifact.Load()
	if artifact == nil || len(clientMessages) == 0 {
		return model.StatusInProgress, 0.0
	}

	vec := artifact.Vectorizer.Transform(strings.Join(clientMessages, predictionSeparator))
	return artifact.Model.Predict(vec)
}
