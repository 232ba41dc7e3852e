package features

import (
	"errors"
	"reflect"
	"testing"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

func record(label domain.Label, tokens ...string) domain.FeedbackRecord {
	return domain.FeedbackRecord{Label: label, Tokens: tokens}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.FeedbackRecord
		width   int
		want    [][]string
	}{
		{
			name:    "length 5 width 4 yields end positions 4 and 5",
			records: []domain.FeedbackRecord{record(domain.Liked, "A-4", "B-4", "rest", "C#-4", "D-4")},
			width:   4,
			want: [][]string{
				{"A-4", "B-4", "rest", "C#-4"},
				{"B-4", "rest", "C#-4", "D-4"},
			},
		},
		{
			name:    "window ending on a continuation is dropped",
			records: []domain.FeedbackRecord{record(domain.Liked, "A-4", "B-4", "rest", "C#-4", "cont")},
			width:   4,
			want: [][]string{
				{"A-4", "B-4", "rest", "C#-4"},
			},
		},
		{
			name:    "continuation inside the window is kept",
			records: []domain.FeedbackRecord{record(domain.Disliked, "A-4", "cont", "rest", "C#-4")},
			width:   4,
			want: [][]string{
				{"A-4", "cont", "rest", "C#-4"},
			},
		},
		{
			name:    "record shorter than the window yields nothing",
			records: []domain.FeedbackRecord{record(domain.Liked, "A-4", "B-4")},
			width:   4,
			want:    nil,
		},
		{
			name: "records expand in log order",
			records: []domain.FeedbackRecord{
				record(domain.Liked, "A-4", "B-4"),
				record(domain.Disliked, "C-4", "D-4"),
			},
			width: 2,
			want: [][]string{
				{"A-4", "B-4"},
				{"C-4", "D-4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := Expand(tt.records, tt.width, ExpandOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got [][]string
			for _, s := range samples {
				got = append(got, s.Window)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("windows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpand_LabelsFollowRecords(t *testing.T) {
	samples, err := Expand([]domain.FeedbackRecord{
		record(domain.Liked, "A-4", "B-4", "C-4"),
		record(domain.Disliked, "D-4", "E-4", "F-4"),
	}, 3, ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Label != domain.Liked || samples[1].Label != domain.Disliked {
		t.Errorf("labels not carried over: %v, %v", samples[0].Label, samples[1].Label)
	}
}

func TestExpand_LegacyHead(t *testing.T) {
	records := []domain.FeedbackRecord{
		record(domain.Liked, "A-4", "B-4", "cont"),
		record(domain.Liked, "C-4", "D-4", "E-4"),
	}

	plain, err := Expand(records, 3, ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	legacy, err := Expand(records, 3, ExpandOptions{LegacyHead: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(legacy) != len(plain)+1 {
		t.Fatalf("expected one extra head sample, got %d vs %d", len(legacy), len(plain))
	}
	if !reflect.DeepEqual(legacy[0].Window, []string{"A-4", "B-4", "cont"}) {
		t.Errorf("unexpected head sample %v", legacy[0].Window)
	}
}

func TestExpand_BadWidth(t *testing.T) {
	if _, err := Expand(nil, 0, ExpandOptions{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestExpand_DoesNotAliasRecordTokens(t *testing.T) {
	rec := record(domain.Liked, "A-4", "B-4")
	samples, err := Expand([]domain.FeedbackRecord{rec}, 2, ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples[0].Window[0] = "rest"
	if rec.Tokens[0] != "A-4" {
		t.Errorf("expanding must not share storage with the record")
	}
}
