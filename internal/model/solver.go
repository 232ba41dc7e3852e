package model

import "math"

// solver runs proximal gradient descent (ISTA) with backtracking line
// search. The smooth part is the summed negative log-likelihood, the
// non-smooth part is lambda*||w||_1 handled by soft thresholding.
type solver struct {
	x      [][]float64
	y      []float64
	lambda float64
	dim    int
}

const (
	initialStep = 1.0
	shrink      = 0.5
	grow        = 1.25
	minStep     = 1e-12
)

func (s *solver) run(maxIter int, tol float64) ([]float64, float64, int) {
	w := make([]float64, s.dim)
	b := s.initialIntercept()
	gw := make([]float64, s.dim)
	next := make([]float64, s.dim)
	step := initialStep

	iter := 0
	for iter < maxIter {
		iter++
		fx, gb := s.gradient(w, b, gw)

		var nb float64
		for {
			for j := range w {
				next[j] = softThreshold(w[j]-step*gw[j], step*s.lambda)
			}
			nb = b - step*gb

			var lin, sq float64
			for j := range w {
				d := next[j] - w[j]
				lin += gw[j] * d
				sq += d * d
			}
			db := nb - b
			lin += gb * db
			sq += db * db

			if s.smooth(next, nb) <= fx+lin+sq/(2*step) || step < minStep {
				break
			}
			step *= shrink
		}

		var delta float64
		for j := range w {
			delta = math.Max(delta, math.Abs(next[j]-w[j]))
		}
		delta = math.Max(delta, math.Abs(nb-b))

		copy(w, next)
		b = nb
		if delta < tol {
			break
		}
		step *= grow
	}
	return w, b, iter
}

// initialIntercept starts from the log-odds of the base rate so the
// intercept does not have to travel far on imbalanced logs.
func (s *solver) initialIntercept() float64 {
	var pos float64
	for _, v := range s.y {
		pos += v
	}
	n := float64(len(s.y))
	return math.Log(pos / (n - pos))
}

// smooth is the summed negative log-likelihood.
func (s *solver) smooth(w []float64, b float64) float64 {
	var nll float64
	for r, row := range s.x {
		z := dot(w, row) + b
		nll += softplus(z) - s.y[r]*z
	}
	return nll
}

// gradient fills gw with the weight gradient of smooth and returns the
// smooth value and the intercept gradient at (w, b).
func (s *solver) gradient(w []float64, b float64, gw []float64) (float64, float64) {
	for j := range gw {
		gw[j] = 0
	}
	var gb, nll float64
	for r, row := range s.x {
		z := dot(w, row) + b
		nll += softplus(z) - s.y[r]*z
		resid := sigmoid(z) - s.y[r]
		for j, v := range row {
			if v != 0 {
				gw[j] += resid * v
			}
		}
		gb += resid
	}
	return nll, gb
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}
