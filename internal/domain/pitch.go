package domain

import (
	"fmt"
	"math"
)

// PitchClass is one of the twelve chromatic pitches, numbered by semitone
// distance above A.
type PitchClass int

const (
	PitchA PitchClass = iota
	PitchASharp
	PitchB
	PitchC
	PitchCSharp
	PitchD
	PitchDSharp
	PitchE
	PitchF
	PitchFSharp
	PitchG
	PitchGSharp
)

const (
	referenceHz     = 440.0
	referenceOctave = 4
)

var pitchNames = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// pitchAliases is the complete spelling table: every sharp has its flat twin.
var pitchAliases = map[string]PitchClass{
	"A": PitchA, "A#": PitchASharp, "Bb": PitchASharp,
	"B": PitchB,
	"C": PitchC, "C#": PitchCSharp, "Db": PitchCSharp,
	"D": PitchD, "D#": PitchDSharp, "Eb": PitchDSharp,
	"E": PitchE,
	"F": PitchF, "F#": PitchFSharp, "Gb": PitchFSharp,
	"G": PitchG, "G#": PitchGSharp, "Ab": PitchGSharp,
}

// ParsePitch resolves a pitch name, accepting both sharp and flat spellings.
func ParsePitch(name string) (PitchClass, error) {
	p, ok := pitchAliases[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown pitch %q", ErrValidation, name)
	}
	return p, nil
}

// SemitoneOffset returns the distance in semitones above A, 0 through 11.
func (p PitchClass) SemitoneOffset() int {
	return int(p)
}

// String returns the canonical (sharp) spelling.
func (p PitchClass) String() string {
	if p < 0 || int(p) >= len(pitchNames) {
		return "unknown"
	}
	return pitchNames[p]
}

// Valid reports whether p is one of the twelve pitch classes.
func (p PitchClass) Valid() bool {
	return p >= PitchA && p <= PitchGSharp
}

// Hertz returns the equal-tempered frequency of pitch at octave, with A-4
// pinned to 440 Hz. Octaves are counted from A, so C-4 sits above A-4.
func Hertz(pitch PitchClass, octave int) float64 {
	semitones := 12*(octave-referenceOctave) + pitch.SemitoneOffset()
	return referenceHz * math.Pow(2, float64(semitones)/12)
}
