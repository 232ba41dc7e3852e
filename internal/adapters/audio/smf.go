package audio

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter smf.MetricTicks = 960
	velocity        uint8           = 100
	channel         uint8           = 0
)

// SMFRecorder records segments as notes on a single track. It never
// blocks, so it is usually paired with a TerminalPlayer through Multi.
type SMFRecorder struct {
	bpm     float64
	track   smf.Track
	pending uint32
	notes   int
}

func NewSMFRecorder(bpm float64) *SMFRecorder {
	return &SMFRecorder{bpm: bpm}
}

func (r *SMFRecorder) PlayTone(ctx context.Context, hz, ms float64) error {
	key, err := HertzToKey(hz)
	if err != nil {
		return err
	}
	r.track.Add(r.pending, midi.NoteOn(channel, key, velocity))
	r.track.Add(r.ticks(ms), midi.NoteOff(channel, key))
	r.pending = 0
	r.notes++
	return nil
}

func (r *SMFRecorder) Rest(ctx context.Context, ms float64) error {
	r.pending += r.ticks(ms)
	return nil
}

// Notes counts the recorded notes.
func (r *SMFRecorder) Notes() int {
	return r.notes
}

// WriteTo encodes the recording. The recorder stays usable afterwards.
func (r *SMFRecorder) WriteTo(w io.Writer) (int64, error) {
	var tempo smf.Track
	tempo.Add(0, smf.MetaTrackSequenceName("orpheus"))
	tempo.Add(0, smf.MetaTempo(r.bpm))
	tempo.Close(0)

	notes := make(smf.Track, len(r.track))
	copy(notes, r.track)
	notes.Close(r.pending)

	s := smf.New()
	s.TimeFormat = ticksPerQuarter
	if err := s.Add(tempo); err != nil {
		return 0, fmt.Errorf("failed to add tempo track: %w", err)
	}
	if err := s.Add(notes); err != nil {
		return 0, fmt.Errorf("failed to add note track: %w", err)
	}
	return s.WriteTo(w)
}

// WriteFile encodes the recording to path.
func (r *SMFRecorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create MIDI file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := r.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return f.Close()
}

func (r *SMFRecorder) ticks(ms float64) uint32 {
	return ticksPerQuarter.Ticks(r.bpm, millis(ms))
}

// HertzToKey maps a frequency to the nearest MIDI key, A4 = 440 Hz = 69.
func HertzToKey(hz float64) (uint8, error) {
	if hz <= 0 {
		return 0, fmt.Errorf("frequency must be positive, got %v", hz)
	}
	key := math.Round(69 + 12*math.Log2(hz/440))
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("frequency %v Hz is outside the MIDI key range", hz)
	}
	return uint8(key), nil
}
