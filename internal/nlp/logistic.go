package nlp

import (
	"fmt"
	"math"
)

// LogisticModel is a multinomial logistic classifier over sparse TF-IDF
// features. Weights are persisted alongside the vectorizer in the predictor
// artifact and are read-only after training.
type LogisticModel struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"` // [class][feature]
	Bias    []float64   `json:"bias"`
}

// TrainOptions control the gradient descent fit.
type TrainOptions struct {
	MaxIter      int
	LearningRate float64
	L2           float64
	Balanced     bool // reweight classes inversely to their frequency
}

// DefaultTrainOptions mirror the production training setup: 1000 iterations
// with balanced class weights and light regularization.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		MaxIter:      1000,
		LearningRate: 0.5,
		L2:           1e-4,
		Balanced:     true,
	}
}

// TrainLogistic fits a softmax regression on the given samples. Labels index
// into classes. Returns an error when the inputs are inconsistent or any
// class has no samples.
func TrainLogistic(x []SparseVector, labels []int, classes []string, numFeatures int, opts TrainOptions) (*LogisticModel, error) {
	if len(x) == 0 || len(x) != len(labels) {
		return nil, fmt.Errorf("inconsistent training set: %d samples, %d labels", len(x), len(labels))
	}
	numClasses := len(classes)
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}

	counts := make([]float64, numClasses)
	for _, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, fmt.Errorf("label %d out of range", label)
		}
		counts[label]++
	}
	sampleWeights := make([]float64, len(labels))
	for i, label := range labels {
		if counts[label] == 0 {
			return nil, fmt.Errorf("class %q has no samples", classes[label])
		}
		if opts.Balanced {
			// n_samples / (n_classes * count_c)
			sampleWeights[i] = float64(len(labels)) / (float64(numClasses) * counts[label])
		} else {
			sampleWeights[i] = 1
		}
	}

	m := &LogisticModel{
		Classes: classes,
		Weights: make([][]float64, numClasses),
		Bias:    make([]float64, numClasses),
	}
	for c := range m.Weights {
		m.Weights[c] = make([]float64, numFeatures)
	}

	gradW := make([][]float64, numClasses)
	gradB := make([]float64, numClasses)
	for c := range gradW {
		gradW[c] = make([]float64, numFeatures)
	}

	invN := 1 / float64(len(x))
	for iter := 0; iter < opts.MaxIter; iter++ {
		for c := range gradW {
			for f := range gradW[c] {
				gradW[c][f] = 0
			}
			gradB[c] = 0
		}

		for i, vec := range x {
			probs := m.scores(vec)
			softmaxInPlace(probs)
			for c := range probs {
				diff := probs[c]
				if c == labels[i] {
					diff -= 1
				}
				diff *= sampleWeights[i] * invN
				for f, w := range vec {
					gradW[c][f] += diff * w
				}
				gradB[c] += diff
			}
		}

		for c := range m.Weights {
			for f := range m.Weights[c] {
				m.Weights[c][f] -= opts.LearningRate * (gradW[c][f] + opts.L2*m.Weights[c][f])
			}
			m.Bias[c] -= opts.LearningRate * gradB[c]
		}
	}

	return m, nil
}

// scores returns the raw linear scores per class.
func (m *LogisticModel) scores(vec SparseVector) []float64 {
	out := make([]float64, len(m.Classes))
	for c := range m.Classes {
		s := m.Bias[c]
		weights := m.Weights[c]
		for f, w := range vec {
			if f < len(weights) {
				s += weights[f] * w
			}
		}
		out[c] = s
	}
	return out
}

// PredictProba returns the class probability vector for a document vector.
func (m *LogisticModel) PredictProba(vec SparseVector) []float64 {
	probs := m.scores(vec)
	softmaxInPlace(probs)
	return probs
}

// Predict returns the top class label and its probability.
func (m *LogisticModel) Predict(vec SparseVector) (string, float64) {
	probs := m.PredictProba(vec)
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return m.Classes[best], probs[best]
}

func softmaxInPlace(scores []float64) {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		scores[i] = math.Exp(s - max)
		sum += scores[i]
	}
	for i := range scores {
		scores[i] /= sum
	}
}
