package nlp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is the versioned predictor bundle: a fitted vectorizer, a fitted
// classifier and its class labels. It is read-only once loaded; retraining
// produces a new artifact that replaces the old one atomically.
type Artifact struct {
	Version    int            `json:"version"`
	TrainedAt  time.Time      `json:"trainedAt"`
	Samples    int            `json:"samples"`
	Vectorizer *Vectorizer    `json:"vectorizer"`
	Model      *LogisticModel `json:"model"`
}

// LoadArtifact reads and validates a persisted artifact bundle.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("corrupt artifact %s: %w", path, err)
	}
	if a.Vectorizer == nil || !a.Vectorizer.IsFitted() {
		return nil, fmt.Errorf("artifact %s has no fitted vectorizer", path)
	}
	if a.Model == nil || len(a.Model.Classes) == 0 {
		return nil, fmt.Errorf("artifact %s has no fitted model", path)
	}
	return &a, nil
}

// Save persists the artifact via a temp file and rename, so a concurrent
// loader never observes a partially written bundle.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
