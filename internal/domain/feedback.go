package domain

import (
	"fmt"
	"strings"
)

// Label is the listener's binary judgment of one sequence.
type Label int

const (
	Disliked Label = 0
	Liked    Label = 1
)

// LabelHeader names the label column in every exported table.
const LabelHeader = "listener_response"

func (l Label) String() string {
	if l == Liked {
		return "liked"
	}
	return "disliked"
}

// Field is the on-disk form: "1" for liked, "0" for disliked.
func (l Label) Field() string {
	if l == Liked {
		return "1"
	}
	return "0"
}

// Float is the regression target for the label.
func (l Label) Float() float64 {
	return float64(l)
}

// ParseLabel reads the on-disk form.
func ParseLabel(field string) (Label, error) {
	switch strings.TrimSpace(field) {
	case "1":
		return Liked, nil
	case "0":
		return Disliked, nil
	default:
		return 0, fmt.Errorf("%w: label must be 0 or 1, got %q", ErrValidation, field)
	}
}

// LabelFromAnswer maps a yes/no answer onto a label.
func LabelFromAnswer(yes bool) Label {
	if yes {
		return Liked
	}
	return Disliked
}

// FeedbackRecord is one judged listening session. Once appended to a store it
// is never changed.
type FeedbackRecord struct {
	Label  Label
	Tokens []string
}

// NewFeedbackRecord copies tokens so later mutation by the caller cannot reach
// the record.
func NewFeedbackRecord(label Label, tokens []string) (FeedbackRecord, error) {
	rec := FeedbackRecord{Label: label, Tokens: append([]string(nil), tokens...)}
	if err := rec.Validate(); err != nil {
		return FeedbackRecord{}, err
	}
	return rec, nil
}

// Validate rejects records the comma-delimited log cannot represent.
func (r FeedbackRecord) Validate() error {
	if r.Label != Liked && r.Label != Disliked {
		return fmt.Errorf("%w: label %d", ErrValidation, int(r.Label))
	}
	if len(r.Tokens) == 0 {
		return fmt.Errorf("%w: record has no tokens", ErrValidation)
	}
	for i, tok := range r.Tokens {
		if tok == "" || strings.ContainsAny(tok, ",\n\r") {
			return fmt.Errorf("%w: token %d %q cannot be stored", ErrValidation, i, tok)
		}
	}
	return nil
}

// BeatHeader returns the header of a log whose rows hold n tokens.
func BeatHeader(n int) []string {
	header := make([]string, 0, n+1)
	header = append(header, LabelHeader)
	for i := 0; i < n; i++ {
		header = append(header, BeatName(i))
	}
	return header
}

// BeatName names the token column at zero-based index i.
func BeatName(i int) string {
	return fmt.Sprintf("beat%d", i)
}
