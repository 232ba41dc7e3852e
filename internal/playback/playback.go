// Package playback drives a tone player through a sequence's merged
// segments.
package playback

import (
	"context"
	"fmt"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// Play renders seq segment by segment. A tone held by k continuations
// sounds once for (k+1) slots; continuations never trigger playback.
func Play(ctx context.Context, seq domain.Sequence, player ports.TonePlayer) error {
	for i, seg := range seq.Segments() {
		var err error
		switch seg.Event.Kind {
		case domain.KindTone:
			err = player.PlayTone(ctx, seg.Event.Hertz(), seg.DurationMs)
		case domain.KindRest:
			err = player.Rest(ctx, seg.DurationMs)
		default:
			err = fmt.Errorf("%w: segment %d starts with %s", domain.ErrInconsistent, i, seg.Event.Kind)
		}
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}
