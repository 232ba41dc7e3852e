package playback

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

type call struct {
	tone bool
	hz   float64
	ms   float64
}

type fakePlayer struct {
	calls []call
	err   error
}

func (f *fakePlayer) PlayTone(ctx context.Context, hz, ms float64) error {
	f.calls = append(f.calls, call{tone: true, hz: hz, ms: ms})
	return f.err
}

func (f *fakePlayer) Rest(ctx context.Context, ms float64) error {
	f.calls = append(f.calls, call{ms: ms})
	return f.err
}

func mustSequence(t *testing.T, tokens []string, bpm float64, beats int) domain.Sequence {
	t.Helper()
	seq, err := domain.ParseSequence(tokens, bpm, beats)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	return seq
}

func TestPlay_MergesContinuations(t *testing.T) {
	seq := mustSequence(t, []string{"A-4", "cont", "cont", "rest", "A-5"}, 120, 5)
	player := &fakePlayer{}

	if err := Play(context.Background(), seq, player); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// 120 bpm, 5 beats over 5 events: 500 ms per slot.
	want := []call{
		{tone: true, hz: 440, ms: 1500},
		{ms: 500},
		{tone: true, hz: 880, ms: 500},
	}
	if len(player.calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(player.calls), len(want), player.calls)
	}
	for i := range want {
		got := player.calls[i]
		if got.tone != want[i].tone || math.Abs(got.hz-want[i].hz) > 1e-9 || math.Abs(got.ms-want[i].ms) > 1e-9 {
			t.Errorf("call %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestPlay_SingleEvent(t *testing.T) {
	seq := mustSequence(t, []string{"rest"}, 145, 8)
	player := &fakePlayer{}

	if err := Play(context.Background(), seq, player); err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := 60000 * 8 / 145.0
	if len(player.calls) != 1 || math.Abs(player.calls[0].ms-want) > 1e-9 {
		t.Errorf("expected one rest of %v ms, got %v", want, player.calls)
	}
}

func TestPlay_PlayerErrorStops(t *testing.T) {
	seq := mustSequence(t, []string{"A-4", "B-4"}, 120, 2)
	boom := errors.New("no device")
	player := &fakePlayer{err: boom}

	if err := Play(context.Background(), seq, player); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(player.calls) != 1 {
		t.Errorf("expected playback to stop after the first failure, got %d calls", len(player.calls))
	}
}
