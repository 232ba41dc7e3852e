package generator

import (
	"fmt"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Vocabulary orders the candidate tokens: configured notes first, then
// the continuation, then the rest. Priors are indexed the same way.
func Vocabulary(notes []string) []string {
	vocab := make([]string, 0, len(notes)+2)
	vocab = append(vocab, notes...)
	return append(vocab, domain.ContinuationToken, domain.RestToken)
}

// LinearPrior uses the weights as given over notes, continuation and rest,
// normalized to sum to one.
func LinearPrior(noteWeights []float64, cont, rest float64) ([]float64, error) {
	weights := make([]float64, 0, len(noteWeights)+2)
	weights = append(weights, noteWeights...)
	weights = append(weights, cont, rest)
	if err := checkWeights(weights); err != nil {
		return nil, err
	}
	return Normalize(weights), nil
}

// TreePrior first decides continuation with probability cont, then rest
// with probability rest, and otherwise picks a note by its relative weight.
func TreePrior(noteWeights []float64, cont, rest float64) ([]float64, error) {
	if cont < 0 || cont > 1 || rest < 0 || rest > 1 {
		return nil, fmt.Errorf("%w: tree prior branch probabilities must lie in [0, 1], got cont=%v rest=%v", domain.ErrValidation, cont, rest)
	}
	if err := checkWeights(noteWeights); err != nil {
		return nil, err
	}
	var total float64
	for _, w := range noteWeights {
		total += w
	}

	note := (1 - cont) * (1 - rest)
	prior := make([]float64, 0, len(noteWeights)+2)
	for _, w := range noteWeights {
		prior = append(prior, note*w/total)
	}
	return append(prior, cont, (1-cont)*rest), nil
}

func checkWeights(weights []float64) error {
	var total float64
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: prior weight %d is negative (%v)", domain.ErrValidation, i, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: prior weights sum to zero", domain.ErrValidation)
	}
	return nil
}
