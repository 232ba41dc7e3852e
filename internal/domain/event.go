package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind discriminates the three things a beat slot can hold.
type EventKind int

const (
	KindTone EventKind = iota
	KindRest
	KindContinuation
)

// Reserved tokens for the non-tone variants.
const (
	RestToken         = "rest"
	ContinuationToken = "cont"
)

func (k EventKind) String() string {
	switch k {
	case KindTone:
		return "tone"
	case KindRest:
		return "rest"
	case KindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Event is a single beat slot. Pitch and Octave are meaningful only for tones.
type Event struct {
	Kind   EventKind
	Pitch  PitchClass
	Octave int
}

// Tone builds a sounding event.
func Tone(pitch PitchClass, octave int) Event {
	return Event{Kind: KindTone, Pitch: pitch, Octave: octave}
}

// Rest builds a silent event.
func Rest() Event {
	return Event{Kind: KindRest}
}

// Continuation builds an event that extends whatever precedes it.
func Continuation() Event {
	return Event{Kind: KindContinuation}
}

// Token serializes the event: "<pitch>-<octave>", "rest" or "cont".
func (e Event) Token() (string, error) {
	switch e.Kind {
	case KindTone:
		if !e.Pitch.Valid() {
			return "", fmt.Errorf("%w: tone with pitch %d", ErrInconsistent, int(e.Pitch))
		}
		return e.Pitch.String() + "-" + strconv.Itoa(e.Octave), nil
	case KindRest:
		return RestToken, nil
	case KindContinuation:
		return ContinuationToken, nil
	default:
		return "", fmt.Errorf("%w: event kind %d", ErrInconsistent, int(e.Kind))
	}
}

// Hertz returns the tone frequency, or 0 for rests and continuations.
func (e Event) Hertz() float64 {
	if e.Kind != KindTone {
		return 0
	}
	return Hertz(e.Pitch, e.Octave)
}

// ParseToken is the inverse of Token. Flat spellings are accepted and
// normalized to the canonical sharp name.
func ParseToken(token string) (Event, error) {
	switch token {
	case RestToken:
		return Rest(), nil
	case ContinuationToken:
		return Continuation(), nil
	}

	idx := strings.Index(token, "-")
	if idx <= 0 || idx == len(token)-1 {
		return Event{}, fmt.Errorf("%w: malformed token %q", ErrValidation, token)
	}
	pitch, err := ParsePitch(token[:idx])
	if err != nil {
		return Event{}, err
	}
	octave, err := strconv.Atoi(token[idx+1:])
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad octave in token %q", ErrValidation, token)
	}
	return Tone(pitch, octave), nil
}

// ConvertNotes builds events from pitch names. octaves is parallel to names;
// when nil every tone sits in octave 4. The name "rest" yields a rest.
func ConvertNotes(names []string, octaves []int) ([]Event, error) {
	if octaves != nil && len(octaves) != len(names) {
		return nil, fmt.Errorf("%w: %d names but %d octaves", ErrValidation, len(names), len(octaves))
	}

	events := make([]Event, 0, len(names))
	for i, name := range names {
		if name == RestToken {
			events = append(events, Rest())
			continue
		}
		pitch, err := ParsePitch(name)
		if err != nil {
			return nil, err
		}
		octave := referenceOctave
		if octaves != nil {
			octave = octaves[i]
		}
		events = append(events, Tone(pitch, octave))
	}
	return events, nil
}
