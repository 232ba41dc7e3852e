package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/generator"
	"github.com/emiliopalmerini/orpheus/internal/model"
)

// Prior modes.
const (
	PriorLinear = "linear"
	PriorTree   = "tree"
)

// Profile describes one listening setup: the active vocabulary, how the
// bootstrap prior weighs it, tempo, and the learning parameters.
type Profile struct {
	Notes        []string  `yaml:"notes"`
	NoteWeights  []float64 `yaml:"note_weights"`
	Continuation float64   `yaml:"continuation"`
	Rest         float64   `yaml:"rest"`
	Prior        string    `yaml:"prior"`

	BPM    float64 `yaml:"bpm"`
	Beats  int     `yaml:"beats"`
	Length int     `yaml:"length"`

	WindowWidth      int  `yaml:"window_width"`
	InteractionOrder int  `yaml:"interaction_order"`
	Bootstrap        int  `yaml:"bootstrap"`
	LegacyHead       bool `yaml:"legacy_head"`

	C         float64 `yaml:"c"`
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"`
}

// DefaultProfile is an eight-beat session over the A major scale.
func DefaultProfile() Profile {
	notes := []string{"A-4", "B-4", "C#-4", "D-4", "E-4", "F#-4", "G#-4", "A-5"}
	weights := make([]float64, len(notes))
	for i := range weights {
		weights[i] = 0.08
	}
	return Profile{
		Notes:            notes,
		NoteWeights:      weights,
		Continuation:     0.18,
		Rest:             0.18,
		Prior:            PriorLinear,
		BPM:              145,
		Beats:            8,
		Length:           8,
		WindowWidth:      4,
		InteractionOrder: 3,
		Bootstrap:        3,
		C:                2,
	}
}

// LoadProfile reads a YAML profile over the defaults. An empty path
// returns DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return &p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	// Notes and weights travel together; a profile naming its own notes
	// must not inherit the default weights.
	p.NoteWeights = nil
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p Profile) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: profile: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
	}

	switch {
	case p.Length < 1:
		return fail("length must be at least 1, got %d", p.Length)
	case p.BPM <= 0:
		return fail("bpm must be positive, got %v", p.BPM)
	case p.Beats <= 0:
		return fail("beats must be positive, got %d", p.Beats)
	case p.WindowWidth < 1:
		return fail("window_width must be at least 1, got %d", p.WindowWidth)
	case p.InteractionOrder < 1 || p.InteractionOrder > p.WindowWidth:
		return fail("interaction_order must lie in [1, %d], got %d", p.WindowWidth, p.InteractionOrder)
	case p.Bootstrap < p.WindowWidth-1:
		return fail("bootstrap must be at least window_width-1 (%d), got %d", p.WindowWidth-1, p.Bootstrap)
	case p.Bootstrap > p.Length:
		return fail("bootstrap %d exceeds length %d", p.Bootstrap, p.Length)
	case p.C <= 0:
		return fail("c must be positive, got %v", p.C)
	case p.Prior != PriorLinear && p.Prior != PriorTree:
		return fail("prior must be %q or %q, got %q", PriorLinear, PriorTree, p.Prior)
	case len(p.Notes) == 0:
		return fail("at least one note is required")
	case len(p.NoteWeights) != 0 && len(p.NoteWeights) != len(p.Notes):
		return fail("%d note weights for %d notes", len(p.NoteWeights), len(p.Notes))
	}

	for _, n := range p.Notes {
		ev, err := domain.ParseToken(n)
		if err != nil || ev.Kind != domain.KindTone {
			return fail("note %q is not a <pitch>-<octave> token", n)
		}
	}
	if _, err := p.PriorWeights(); err != nil {
		return err
	}
	return nil
}

// Vocabulary returns the canonical candidate tokens: notes, continuation,
// rest.
func (p Profile) Vocabulary() ([]string, error) {
	notes := make([]string, len(p.Notes))
	for i, n := range p.Notes {
		ev, err := domain.ParseToken(n)
		if err != nil {
			return nil, err
		}
		if notes[i], err = ev.Token(); err != nil {
			return nil, err
		}
	}
	return generator.Vocabulary(notes), nil
}

func (p Profile) noteWeights() []float64 {
	if len(p.NoteWeights) != 0 {
		return p.NoteWeights
	}
	share := (1 - p.Continuation - p.Rest) / float64(len(p.Notes))
	if p.Prior == PriorTree {
		share = 1
	}
	weights := make([]float64, len(p.Notes))
	for i := range weights {
		weights[i] = share
	}
	return weights
}

// PriorWeights builds the bootstrap distribution in Vocabulary order.
func (p Profile) PriorWeights() ([]float64, error) {
	if p.Prior == PriorTree {
		return generator.TreePrior(p.noteWeights(), p.Continuation, p.Rest)
	}
	return generator.LinearPrior(p.noteWeights(), p.Continuation, p.Rest)
}

// ExpandOptions returns the window expansion options.
func (p Profile) ExpandOptions() features.ExpandOptions {
	return features.ExpandOptions{LegacyHead: p.LegacyHead}
}

// ModelOptions returns the solver options.
func (p Profile) ModelOptions() model.Options {
	return model.Options{C: p.C, MaxIter: p.MaxIter, Tolerance: p.Tolerance}
}
