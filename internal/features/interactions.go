package features

import (
	"strings"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Interaction is a subset of window positions (1-based, in enumeration
// order) whose tokens are concatenated into a single categorical value.
type Interaction struct {
	Positions []int `json:"positions"`
}

// Name concatenates the beat names of the positions, e.g. "beat0beat2".
func (in Interaction) Name() string {
	var b strings.Builder
	for _, p := range in.Positions {
		b.WriteString(domain.BeatName(p - 1))
	}
	return b.String()
}

// Value concatenates the window tokens at the interaction's positions. The
// caller guarantees the window is wide enough.
func (in Interaction) Value(window []string) string {
	var b strings.Builder
	for _, p := range in.Positions {
		b.WriteString(window[p-1])
	}
	return b.String()
}

// EnumerateSubsets returns every subset of {1..n}, empty set included, in
// binary-counting insertion order: starting from the empty subset, each
// position in increasing order is appended to a copy of every subset built
// so far. For n=3 this yields [] [1] [2] [1 2] [3] [1 3] [2 3] [1 2 3].
// Column names downstream depend on this exact order.
func EnumerateSubsets(n int) [][]int {
	result := [][]int{{}}
	for pos := 1; pos <= n; pos++ {
		count := len(result)
		for i := 0; i < count; i++ {
			subset := make([]int, len(result[i])+1)
			copy(subset, result[i])
			subset[len(subset)-1] = pos
			result = append(result, subset)
		}
	}
	return result
}

// Interactions keeps the non-empty subsets of {1..width} of size at most
// maxOrder, preserving enumeration order.
func Interactions(width, maxOrder int) []Interaction {
	var out []Interaction
	for _, subset := range EnumerateSubsets(width) {
		if len(subset) == 0 || len(subset) > maxOrder {
			continue
		}
		out = append(out, Interaction{Positions: subset})
	}
	return out
}
