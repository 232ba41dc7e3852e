package generator

import "math/rand/v2"

// SelectIndex performs inverse-CDF sampling: it accumulates probs left to
// right and returns the first index whose running sum reaches draw. If
// rounding leaves the total short of draw, the last index is returned.
func SelectIndex(probs []float64, draw float64) int {
	var cum float64
	for i, p := range probs {
		cum += p
		if cum >= draw {
			return i
		}
	}
	return len(probs) - 1
}

// Select draws a uniform value in [0, 1) from rng and samples an index.
func Select(probs []float64, rng *rand.Rand) int {
	return SelectIndex(probs, rng.Float64())
}

// Normalize divides every score by their sum. A zero sum falls back to the
// uniform distribution over all candidates.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	var sum float64
	for _, s := range scores {
		sum += s
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, s := range scores {
		out[i] = s / sum
	}
	return out
}
