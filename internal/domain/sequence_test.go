package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewSequence_Validation(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		bpm    float64
		beats  int
	}{
		{"empty", nil, 120, 4},
		{"leading continuation", []Event{Continuation(), Tone(PitchA, 4)}, 120, 4},
		{"zero bpm", []Event{Rest()}, 0, 4},
		{"zero beats", []Event{Rest()}, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSequence(tt.events, tt.bpm, tt.beats); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSequence_SlotDuration(t *testing.T) {
	seq, err := NewSequence([]Event{Tone(PitchA, 4), Rest(), Continuation(), Tone(PitchB, 4)}, 120, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (60000/120) * (8/4)
	if got := seq.SlotDurationMs(); got != 1000 {
		t.Errorf("SlotDurationMs() = %v, want 1000", got)
	}
	if got := seq.TotalDurationMs(); got != 4000 {
		t.Errorf("TotalDurationMs() = %v, want 4000", got)
	}
}

func TestSequence_SingleEvent(t *testing.T) {
	seq, err := NewSequence([]Event{Tone(PitchA, 4)}, 145, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 60000.0 * 3 / 145
	if math.Abs(seq.SlotDurationMs()-want) > 1e-9 {
		t.Errorf("SlotDurationMs() = %v, want %v", seq.SlotDurationMs(), want)
	}

	segs := seq.Segments()
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Slots != 1 || math.Abs(segs[0].DurationMs-want) > 1e-9 {
		t.Errorf("unexpected segment %+v", segs[0])
	}
}

func TestSequence_SegmentsMergeContinuations(t *testing.T) {
	events := []Event{
		Tone(PitchA, 4), Continuation(), Continuation(),
		Rest(), Continuation(),
		Tone(PitchE, 4),
	}
	seq, err := NewSequence(events, 60, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segs := seq.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	wantSlots := []int{3, 2, 1}
	wantKinds := []EventKind{KindTone, KindRest, KindTone}
	for i, seg := range segs {
		if seg.Slots != wantSlots[i] {
			t.Errorf("segment %d: expected %d slots, got %d", i, wantSlots[i], seg.Slots)
		}
		if seg.Event.Kind != wantKinds[i] {
			t.Errorf("segment %d: expected %s, got %s", i, wantKinds[i], seg.Event.Kind)
		}
		if seg.DurationMs != float64(wantSlots[i])*1000 {
			t.Errorf("segment %d: expected %vms, got %vms", i, float64(wantSlots[i])*1000, seg.DurationMs)
		}
	}
}

func TestParseSequence_RoundTrip(t *testing.T) {
	tokens := []string{"A-4", "cont", "rest", "C#-5"}
	seq, err := ParseSequence(tokens, 145, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := seq.Tokens()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range tokens {
		if got[i] != tokens[i] {
			t.Errorf("token %d: expected %q, got %q", i, tokens[i], got[i])
		}
	}
}
