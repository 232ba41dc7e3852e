package ports

import "context"

// TonePlayer renders playback segments. Both calls block for ms
// milliseconds or until ctx is done.
type TonePlayer interface {
	PlayTone(ctx context.Context, hz, ms float64) error
	Rest(ctx context.Context, ms float64) error
}
