package domain

import "fmt"

// Sequence is an ordered run of events played at a fixed tempo. Beats is the
// number of beats the whole sequence spans, so each event slot lasts
// (60000/BPM) * (Beats/len(Events)) milliseconds.
type Sequence struct {
	Events []Event
	BPM    float64
	Beats  int
}

// Segment is one merged playback instruction: an event held for Slots slots.
type Segment struct {
	Event      Event
	Slots      int
	DurationMs float64
}

// NewSequence validates and builds a sequence.
func NewSequence(events []Event, bpm float64, beats int) (Sequence, error) {
	if len(events) == 0 {
		return Sequence{}, fmt.Errorf("%w: sequence has no events", ErrValidation)
	}
	if events[0].Kind == KindContinuation {
		return Sequence{}, fmt.Errorf("%w: sequence starts with a continuation", ErrValidation)
	}
	if bpm <= 0 {
		return Sequence{}, fmt.Errorf("%w: bpm must be positive, got %v", ErrValidation, bpm)
	}
	if beats <= 0 {
		return Sequence{}, fmt.Errorf("%w: beats must be positive, got %d", ErrValidation, beats)
	}
	return Sequence{Events: events, BPM: bpm, Beats: beats}, nil
}

// ParseSequence builds a sequence from serialized tokens.
func ParseSequence(tokens []string, bpm float64, beats int) (Sequence, error) {
	events := make([]Event, len(tokens))
	for i, tok := range tokens {
		ev, err := ParseToken(tok)
		if err != nil {
			return Sequence{}, fmt.Errorf("position %d: %w", i, err)
		}
		events[i] = ev
	}
	return NewSequence(events, bpm, beats)
}

// SlotDurationMs is the length of a single event slot.
func (s Sequence) SlotDurationMs() float64 {
	return (60000 / s.BPM) * (float64(s.Beats) / float64(len(s.Events)))
}

// TotalDurationMs is the wall-clock length of the whole sequence.
func (s Sequence) TotalDurationMs() float64 {
	return s.SlotDurationMs() * float64(len(s.Events))
}

// Tokens serializes every event in order.
func (s Sequence) Tokens() ([]string, error) {
	tokens := make([]string, len(s.Events))
	for i, ev := range s.Events {
		tok, err := ev.Token()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		tokens[i] = tok
	}
	return tokens, nil
}

// Segments merges each tone or rest with the continuations that follow it.
// Continuations never start a segment of their own.
func (s Sequence) Segments() []Segment {
	slot := s.SlotDurationMs()
	var segments []Segment
	for i := 0; i < len(s.Events); i++ {
		ev := s.Events[i]
		if ev.Kind == KindContinuation {
			continue
		}
		slots := 1
		for j := i + 1; j < len(s.Events) && s.Events[j].Kind == KindContinuation; j++ {
			slots++
		}
		segments = append(segments, Segment{
			Event:      ev,
			Slots:      slots,
			DurationMs: float64(slots) * slot,
		})
	}
	return segments
}
