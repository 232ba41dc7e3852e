// Package audio renders playback segments. TerminalPlayer stands in for a
// synthesizer by printing each segment and holding it for its duration.
// SMFRecorder captures the same segments as a Standard MIDI File.
package audio

import (
	"context"
	"fmt"
	"io"
	"time"
)

type TerminalPlayer struct {
	out   io.Writer
	sleep func(ctx context.Context, d time.Duration) error
}

func NewTerminalPlayer(out io.Writer) *TerminalPlayer {
	return &TerminalPlayer{out: out, sleep: sleepCtx}
}

func (p *TerminalPlayer) PlayTone(ctx context.Context, hz, ms float64) error {
	_, _ = fmt.Fprintf(p.out, "  note %7.2f Hz  %6.0f ms\n", hz, ms)
	return p.sleep(ctx, millis(ms))
}

func (p *TerminalPlayer) Rest(ctx context.Context, ms float64) error {
	_, _ = fmt.Fprintf(p.out, "  rest            %6.0f ms\n", ms)
	return p.sleep(ctx, millis(ms))
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
