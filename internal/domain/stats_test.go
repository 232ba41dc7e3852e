package domain

import (
	"math"
	"reflect"
	"testing"
)

func TestSummarizeFeedback(t *testing.T) {
	records := []FeedbackRecord{
		{Label: Liked, Tokens: []string{"A-4", "cont", "B-4", "A-4"}},
		{Label: Disliked, Tokens: []string{"rest", "A-4", "rest", "rest"}},
		{Label: Liked, Tokens: []string{"B-4", "B-4", "cont", "A-4"}},
	}

	tests := []struct {
		name  string
		limit int
		top   []TokenCount
	}{
		{
			name:  "top two",
			limit: 2,
			top: []TokenCount{
				{Token: "A-4", Count: 4, Liked: 3},
				{Token: "B-4", Count: 3, Liked: 3},
			},
		},
		{
			name:  "ties break by token",
			limit: 0,
			top: []TokenCount{
				{Token: "A-4", Count: 4, Liked: 3},
				{Token: "B-4", Count: 3, Liked: 3},
				{Token: "rest", Count: 3, Liked: 0},
				{Token: "cont", Count: 2, Liked: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SummarizeFeedback(records, tt.limit)
			if s.Records != 3 || s.Liked != 2 || s.Disliked != 1 || s.Tokens != 12 {
				t.Errorf("unexpected counts %+v", s)
			}
			if !reflect.DeepEqual(s.Top, tt.top) {
				t.Errorf("Top = %v, want %v", s.Top, tt.top)
			}
		})
	}
}

func TestFeedbackStats_LikedRatio(t *testing.T) {
	tests := []struct {
		name  string
		stats FeedbackStats
		want  float64
	}{
		{"empty log", FeedbackStats{}, 0},
		{"two of three", FeedbackStats{Records: 3, Liked: 2}, 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.LikedRatio(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LikedRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}
