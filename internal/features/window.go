package features

import (
	"fmt"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// WindowSample is one training row: the label of the sequence it came from
// and a trailing window of Width tokens.
type WindowSample struct {
	Label  domain.Label
	Window []string
}

// ExpandOptions tunes window expansion.
type ExpandOptions struct {
	// LegacyHead also emits the first record's leading tokens as one extra
	// sample, whatever they end in. Older logs were expanded this way; leave
	// it off for new logs.
	LegacyHead bool
}

// Expand slides a width-wide window over every record. For a record of L
// tokens it considers end positions width..L and keeps the window covering
// tokens [p-width, p) unless token p-1 is a continuation, since no new
// decision was made there.
func Expand(records []domain.FeedbackRecord, width int, opts ExpandOptions) ([]WindowSample, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: window width must be at least 1, got %d", domain.ErrValidation, width)
	}

	var samples []WindowSample
	for i, rec := range records {
		if i == 0 && opts.LegacyHead && len(rec.Tokens) >= width {
			samples = append(samples, newSample(rec.Label, rec.Tokens[:width]))
		}
		for p := width; p <= len(rec.Tokens); p++ {
			if rec.Tokens[p-1] == domain.ContinuationToken {
				continue
			}
			samples = append(samples, newSample(rec.Label, rec.Tokens[p-width:p]))
		}
	}
	return samples, nil
}

func newSample(label domain.Label, window []string) WindowSample {
	return WindowSample{Label: label, Window: append([]string(nil), window...)}
}
