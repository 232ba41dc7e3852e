package model

import (
	"errors"
	"math"
	"testing"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// trainingSet has column 0 tracking the label three times out of four and
// column 1 carrying no signal in either class.
func trainingSet() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	cell := func(x0, x1 float64, liked, disliked int) {
		for i := 0; i < liked; i++ {
			x = append(x, []float64{x0, x1})
			y = append(y, 1)
		}
		for i := 0; i < disliked; i++ {
			x = append(x, []float64{x0, x1})
			y = append(y, 0)
		}
	}
	cell(1, 1, 3, 1)
	cell(1, 0, 3, 1)
	cell(0, 1, 1, 3)
	cell(0, 0, 1, 3)
	return x, y
}

func TestFit_LearnsInformativeColumn(t *testing.T) {
	x, y := trainingSet()
	m, err := Fit(x, y, Options{C: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Weights[0] <= 0 {
		t.Errorf("expected a positive weight on the informative column, got %v", m.Weights[0])
	}
	if math.Abs(m.Weights[1]) > 1e-9 {
		t.Errorf("expected the noise column to be zeroed, got %v", m.Weights[1])
	}

	on, _ := m.Score([]float64{1, 0})
	off, _ := m.Score([]float64{0, 0})
	if on <= off {
		t.Errorf("score with informative column set (%v) should beat unset (%v)", on, off)
	}
}

func TestFit_StrongPenaltyZeroesWeights(t *testing.T) {
	x, y := trainingSet()
	m, err := Fit(x, y, Options{C: 0.01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.NonZero() != 0 {
		t.Errorf("expected every weight at zero, got %v", m.Weights)
	}

	// With all weights gone the model predicts the base rate.
	p, err := m.Score([]float64{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.5) > 1e-6 {
		t.Errorf("expected base rate 0.5, got %v", p)
	}
}

func TestFit_WeakerPenaltyIsDenser(t *testing.T) {
	x, y := trainingSet()
	sparse, err := Fit(x, y, Options{C: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dense, err := Fit(x, y, Options{C: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l1(dense.Weights) < l1(sparse.Weights) {
		t.Errorf("weaker penalty produced a smaller L1 norm: %v < %v", l1(dense.Weights), l1(sparse.Weights))
	}
}

func TestScore_Range(t *testing.T) {
	m := &Model{Weights: []float64{800, -800}, Intercept: 0}
	for _, x := range [][]float64{{1, 0}, {0, 1}, {0, 0}} {
		p, err := m.Score(x)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Errorf("Score(%v) = %v, outside [0, 1]", x, p)
		}
	}
}

func TestScore_LengthMismatch(t *testing.T) {
	m := &Model{Weights: []float64{1, 2}}
	if _, err := m.Score([]float64{1}); !errors.Is(err, domain.ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestFit_Errors(t *testing.T) {
	x, y := trainingSet()
	tests := []struct {
		name string
		x    [][]float64
		y    []float64
		opts Options
		want error
	}{
		{"non-positive C", x, y, Options{C: 0}, domain.ErrValidation},
		{"no rows", nil, nil, Options{C: 1}, domain.ErrTraining},
		{"single class", [][]float64{{1}, {0}}, []float64{1, 1}, Options{C: 1}, domain.ErrTraining},
		{"label count mismatch", x, y[:3], Options{C: 1}, domain.ErrTraining},
		{"ragged rows", [][]float64{{1, 0}, {1}}, []float64{1, 0}, Options{C: 1}, domain.ErrIndex},
		{"label outside 0/1", [][]float64{{1}, {0}}, []float64{1, 2}, Options{C: 1}, domain.ErrTraining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fit(tt.x, tt.y, tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSoftThreshold(t *testing.T) {
	tests := []struct {
		v, t, want float64
	}{
		{3, 1, 2},
		{-3, 1, -2},
		{0.5, 1, 0},
		{-0.5, 1, 0},
	}
	for _, tt := range tests {
		if got := softThreshold(tt.v, tt.t); got != tt.want {
			t.Errorf("softThreshold(%v, %v) = %v, want %v", tt.v, tt.t, got, tt.want)
		}
	}
}
