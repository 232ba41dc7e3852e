// Package model fits the preference classifier: logistic regression with an
// L1 penalty on the weights, minimizing
//
//	NLL(w, b) + (1/C) * ||w||_1
//
// The intercept is not penalized. Larger C means a weaker penalty and a
// denser weight vector.
package model

import (
	"fmt"
	"math"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Options controls the solver. Zero values fall back to defaults.
type Options struct {
	C         float64
	MaxIter   int
	Tolerance float64
}

const (
	defaultMaxIter   = 5000
	defaultTolerance = 1e-7
)

// Model is an immutable fitted classifier. Retraining produces a new Model.
type Model struct {
	Weights    []float64 `json:"weights"`
	Intercept  float64   `json:"intercept"`
	C          float64   `json:"c"`
	Iterations int       `json:"iterations"`
	Objective  float64   `json:"objective"`
}

// Score returns P(liked | x).
func (m *Model) Score(x []float64) (float64, error) {
	if len(x) != len(m.Weights) {
		return 0, fmt.Errorf("%w: vector has %d features, model has %d", domain.ErrIndex, len(x), len(m.Weights))
	}
	return sigmoid(dot(m.Weights, x) + m.Intercept), nil
}

// NonZero counts the weights the penalty did not drive to zero.
func (m *Model) NonZero() int {
	n := 0
	for _, w := range m.Weights {
		if w != 0 {
			n++
		}
	}
	return n
}

// Fit trains on rows x with targets y in {0, 1}. It fails with
// domain.ErrTraining when the data cannot support a classifier.
func Fit(x [][]float64, y []float64, opts Options) (*Model, error) {
	if opts.C <= 0 {
		return nil, fmt.Errorf("%w: regularization strength C must be positive, got %v", domain.ErrValidation, opts.C)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = defaultMaxIter
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no training rows", domain.ErrTraining)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", domain.ErrTraining, len(x), len(y))
	}

	dim := len(x[0])
	var positives int
	for r := range x {
		if len(x[r]) != dim {
			return nil, fmt.Errorf("%w: row %d has %d features, expected %d", domain.ErrIndex, r, len(x[r]), dim)
		}
		switch y[r] {
		case 1:
			positives++
		case 0:
		default:
			return nil, fmt.Errorf("%w: label %v on row %d is not 0 or 1", domain.ErrTraining, y[r], r)
		}
	}
	if positives == 0 || positives == len(y) {
		return nil, fmt.Errorf("%w: all %d rows carry the same label", domain.ErrTraining, len(y))
	}

	s := &solver{x: x, y: y, lambda: 1 / opts.C, dim: dim}
	w, b, iters := s.run(opts.MaxIter, opts.Tolerance)
	obj := s.smooth(w, b) + s.lambda*l1(w)
	if math.IsNaN(obj) || math.IsInf(obj, 0) {
		return nil, fmt.Errorf("%w: solver diverged", domain.ErrTraining)
	}

	return &Model{Weights: w, Intercept: b, C: opts.C, Iterations: iters, Objective: obj}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func l1(w []float64) float64 {
	var s float64
	for _, v := range w {
		s += math.Abs(v)
	}
	return s
}
