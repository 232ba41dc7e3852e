package domain

import "sort"

// FeedbackStats summarizes a feedback log.
type FeedbackStats struct {
	Records  int          `json:"records"`
	Liked    int          `json:"liked"`
	Disliked int          `json:"disliked"`
	Tokens   int          `json:"tokens"`
	Top      []TokenCount `json:"top_tokens"`
}

// TokenCount is how often a token appears across the log, with how many of
// those occurrences sat in liked sequences.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
	Liked int    `json:"liked"`
}

// LikedRatio is the share of liked records. Zero-safe: an empty log has
// ratio 0.
func (s FeedbackStats) LikedRatio() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.Liked) / float64(s.Records)
}

// SummarizeFeedback counts labels and tokens. Top holds at most limit
// tokens, most frequent first, ties broken by token; limit <= 0 keeps all.
func SummarizeFeedback(records []FeedbackRecord, limit int) FeedbackStats {
	var s FeedbackStats
	counts := make(map[string]*TokenCount)

	for _, rec := range records {
		s.Records++
		if rec.Label == Liked {
			s.Liked++
		} else {
			s.Disliked++
		}
		for _, tok := range rec.Tokens {
			s.Tokens++
			tc, ok := counts[tok]
			if !ok {
				tc = &TokenCount{Token: tok}
				counts[tok] = tc
			}
			tc.Count++
			if rec.Label == Liked {
				tc.Liked++
			}
		}
	}

	s.Top = make([]TokenCount, 0, len(counts))
	for _, tc := range counts {
		s.Top = append(s.Top, *tc)
	}
	sort.Slice(s.Top, func(i, j int) bool {
		if s.Top[i].Count != s.Top[j].Count {
			return s.Top[i].Count > s.Top[j].Count
		}
		return s.Top[i].Token < s.Top[j].Token
	})
	if limit > 0 && len(s.Top) > limit {
		s.Top = s.Top[:limit]
	}
	return s
}
