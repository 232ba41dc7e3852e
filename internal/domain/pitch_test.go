package domain

import (
	"errors"
	"math"
	"testing"
)

func TestHertz(t *testing.T) {
	tests := []struct {
		name   string
		pitch  PitchClass
		octave int
		want   float64
	}{
		{"A4 reference", PitchA, 4, 440.0},
		{"A5 one octave up", PitchA, 5, 880.0},
		{"A3 one octave down", PitchA, 3, 220.0},
		{"A#4 one semitone up", PitchASharp, 4, 440.0 * math.Pow(2, 1.0/12)},
		{"G#3 one semitone below A4", PitchGSharp, 3, 440.0 * math.Pow(2, -1.0/12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hertz(tt.pitch, tt.octave)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Hertz(%s, %d) = %v, want %v", tt.pitch, tt.octave, got, tt.want)
			}
		})
	}
}

func TestParsePitch_Aliases(t *testing.T) {
	pairs := [][2]string{
		{"A#", "Bb"},
		{"C#", "Db"},
		{"D#", "Eb"},
		{"F#", "Gb"},
		{"G#", "Ab"},
	}
	for _, pair := range pairs {
		sharp, err := ParsePitch(pair[0])
		if err != nil {
			t.Fatalf("ParsePitch(%q): %v", pair[0], err)
		}
		flat, err := ParsePitch(pair[1])
		if err != nil {
			t.Fatalf("ParsePitch(%q): %v", pair[1], err)
		}
		if sharp != flat {
			t.Errorf("%s and %s should be the same class, got %d and %d", pair[0], pair[1], sharp, flat)
		}
	}
}

func TestParsePitch_Unknown(t *testing.T) {
	for _, name := range []string{"H", "", "a", "Dd", "E#"} {
		if _, err := ParsePitch(name); !errors.Is(err, ErrValidation) {
			t.Errorf("ParsePitch(%q): expected ErrValidation, got %v", name, err)
		}
	}
}

func TestPitchClass_OffsetsCoverTwelve(t *testing.T) {
	seen := make(map[int]bool)
	for _, p := range pitchAliases {
		off := p.SemitoneOffset()
		if off < 0 || off > 11 {
			t.Fatalf("offset %d out of range", off)
		}
		seen[off] = true
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct offsets, got %d", len(seen))
	}
}
