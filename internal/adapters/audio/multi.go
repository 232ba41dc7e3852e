package audio

import (
	"context"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// Multi forwards every call to each player in order and stops at the
// first error.
type Multi []ports.TonePlayer

func (m Multi) PlayTone(ctx context.Context, hz, ms float64) error {
	for _, p := range m {
		if err := p.PlayTone(ctx, hz, ms); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Rest(ctx context.Context, ms float64) error {
	for _, p := range m {
		if err := p.Rest(ctx, ms); err != nil {
			return err
		}
	}
	return nil
}
