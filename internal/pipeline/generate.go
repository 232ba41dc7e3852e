package pipeline

import (
	"context"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/generator"
)

// Generate draws one sequence. With trained nil every position comes from
// the prior; otherwise positions past the bootstrap follow the model.
func (s *Service) Generate(ctx context.Context, trained *Trained) (domain.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sequence{}, err
	}

	p := s.profile
	cfg := generator.Config{
		Vocabulary:      s.vocab,
		Prior:           s.prior,
		BootstrapLength: p.Bootstrap,
		WindowWidth:     p.WindowWidth,
		Length:          p.Length,
	}
	if trained == nil {
		cfg.BootstrapLength = p.Length
	} else {
		cfg.Score = trained.Score
	}

	g, err := generator.New(cfg, s.rng)
	if err != nil {
		return domain.Sequence{}, err
	}
	tokens, err := g.Generate()
	if err != nil {
		return domain.Sequence{}, err
	}
	s.logger.Debug("sequence generated", "tokens", tokens, "prior_only", trained == nil)
	return domain.ParseSequence(tokens, p.BPM, p.Beats)
}
