// Package learning implements the gradient optimizer of the phishing classifier
package learning

import "math"

import "github.com/pkg/errors"

// HyperParameters configure one training run
type HyperParameters struct {
	Epochs       int     `yaml:"epochs"`        // full-batch passes over the training set
	LearningRate float64 `yaml:"learning_rate"` // Adam step size

	Beta1   float64 `yaml:"beta1"`   // first moment decay
	Beta2   float64 `yaml:"beta2"`   // second moment decay
	Epsilon float64 `yaml:"epsilon"` // denominator term

	Seed        int64 `yaml:"seed"`         // weight initialization seed
	ReportEvery int   `yaml:"report_every"` // log loss and accuracy every this many epochs
}

// DefaultHyperParameters returns the protocol the published model was trained with
func DefaultHyperParameters() HyperParameters {
	return HyperParameters{
		Epochs:       50,
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		Seed:         42,
		ReportEvery:  10,
	}
}

// Validate reports hyperparameters that can't train. NaN fails every check.
func (h HyperParameters) Validate() error {
	switch {
	case h.Epochs <= 0:
		return errors.Errorf("epochs must be positive, got %d", h.Epochs)
	case !(h.LearningRate > 0) || math.IsInf(h.LearningRate, 1):
		return errors.Errorf("learning rate must be positive and finite, got %g", h.LearningRate)
	case !(h.Beta1 >= 0 && h.Beta1 < 1):
		return errors.Errorf("beta1 must be in [0, 1), got %g", h.Beta1)
	case !(h.Beta2 >= 0 && h.Beta2 < 1):
		return errors.Errorf("beta2 must be in [0, 1), got %g", h.Beta2)
	case !(h.Epsilon > 0) || math.IsInf(h.Epsilon, 1):
		return errors.Errorf("epsilon must be positive and finite, got %g", h.Epsilon)
	}
	return nil
}
