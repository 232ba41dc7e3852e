// Package generator produces token sequences in two phases. The first
// BootstrapLength positions are drawn from a fixed prior. Every later
// position scores each vocabulary candidate as the last token of the
// trailing window, normalizes the scores and samples from the result.
package generator

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Scorer returns P(liked) for a full-width trailing window.
type Scorer func(window []string) (float64, error)

// Config parameterizes a Generator. Prior is indexed like Vocabulary.
type Config struct {
	Vocabulary      []string
	Prior           []float64
	BootstrapLength int
	WindowWidth     int
	Length          int
	// Score may be nil only when Length <= BootstrapLength.
	Score Scorer
}

func (c Config) validate() error {
	switch {
	case len(c.Vocabulary) == 0:
		return fmt.Errorf("%w: empty vocabulary", domain.ErrValidation)
	case len(c.Prior) != len(c.Vocabulary):
		return fmt.Errorf("%w: prior has %d entries for %d tokens", domain.ErrValidation, len(c.Prior), len(c.Vocabulary))
	case c.Length < 1:
		return fmt.Errorf("%w: length must be at least 1, got %d", domain.ErrValidation, c.Length)
	case c.WindowWidth < 1:
		return fmt.Errorf("%w: window width must be at least 1, got %d", domain.ErrValidation, c.WindowWidth)
	case c.BootstrapLength < c.WindowWidth-1:
		return fmt.Errorf("%w: bootstrap length %d is shorter than window width minus one (%d)", domain.ErrValidation, c.BootstrapLength, c.WindowWidth-1)
	case c.Length > c.BootstrapLength && c.Score == nil:
		return fmt.Errorf("%w: a scorer is required past the bootstrap phase", domain.ErrValidation)
	}
	if err := checkWeights(c.Prior); err != nil {
		return err
	}
	if c.firstPrior() == nil {
		return fmt.Errorf("%w: prior gives no weight to any token that can open a sequence", domain.ErrValidation)
	}
	return nil
}

// firstPrior is the prior with the continuation masked out, since a
// sequence cannot open on one. It is nil when nothing else has weight.
func (c Config) firstPrior() []float64 {
	masked := slices.Clone(c.Prior)
	var total float64
	for i, tok := range c.Vocabulary {
		if tok == domain.ContinuationToken {
			masked[i] = 0
		}
		total += masked[i]
	}
	if total == 0 {
		return nil
	}
	return Normalize(masked)
}

// Generator draws sequences for one Config. It is not safe for concurrent use.
type Generator struct {
	cfg   Config
	first []float64
	rng   *rand.Rand
}

// New validates cfg and returns a Generator. A nil rng gets a randomly seeded PCG.
func New(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{cfg: cfg, first: cfg.firstPrior(), rng: rng}, nil
}

// Generate returns one sequence of cfg.Length tokens. Position 0 always
// comes from the prior with the continuation masked out, since a sequence
// cannot open on one. This holds even when BootstrapLength is 0 and
// WindowWidth is 1, where every later position is scored by the model.
func (g *Generator) Generate() ([]string, error) {
	cfg := g.cfg
	history := make([]string, 0, cfg.Length)

	for pos := 0; pos < cfg.Length; pos++ {
		var probs []float64
		switch {
		case pos == 0:
			probs = g.first
		case pos < cfg.BootstrapLength:
			probs = cfg.Prior
		default:
			var err error
			probs, err = g.candidates(history)
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", pos, err)
			}
		}
		history = append(history, cfg.Vocabulary[Select(probs, g.rng)])
	}
	return history, nil
}

// candidates scores every vocabulary token as the end of the trailing
// window and returns the normalized distribution.
func (g *Generator) candidates(history []string) ([]float64, error) {
	w := g.cfg.WindowWidth
	window := make([]string, w)
	copy(window, history[len(history)-(w-1):])

	scores := make([]float64, len(g.cfg.Vocabulary))
	for i, tok := range g.cfg.Vocabulary {
		window[w-1] = tok
		s, err := g.cfg.Score(window)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", tok, err)
		}
		scores[i] = s
	}
	return Normalize(scores), nil
}
