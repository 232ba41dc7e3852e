package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

const defaultTopLimit = 10

type Handler struct {
	store    ports.FeedbackStore
	topLimit int
}

func NewHandler(store ports.FeedbackStore, topLimit int) *Handler {
	if topLimit <= 0 {
		topLimit = defaultTopLimit
	}
	return &Handler{store: store, topLimit: topLimit}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/feedback", h.Feedback)
		r.Get("/stats", h.Stats)
	})
}

type feedbackItem struct {
	Index  int      `json:"index"`
	Label  string   `json:"label"`
	Liked  bool     `json:"liked"`
	Tokens []string `json:"tokens"`
}

type feedbackResponse struct {
	Total   int            `json:"total"`
	Records []feedbackItem `json:"records"`
}

type statsResponse struct {
	domain.FeedbackStats
	LikedRatio float64 `json:"liked_ratio"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Feedback lists records in log order. ?label=liked|disliked filters and
// ?limit=n keeps the n most recent matches.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var want *domain.Label
	switch q.Get("label") {
	case "":
	case "liked", "1":
		l := domain.Liked
		want = &l
	case "disliked", "0":
		l := domain.Disliked
		want = &l
	default:
		http.Error(w, "label must be liked or disliked", http.StatusBadRequest)
		return
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	items := make([]feedbackItem, 0, len(records))
	for i, rec := range records {
		if want != nil && rec.Label != *want {
			continue
		}
		items = append(items, feedbackItem{
			Index:  i,
			Label:  rec.Label.String(),
			Liked:  rec.Label == domain.Liked,
			Tokens: rec.Tokens,
		})
	}
	total := len(items)
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}

	writeJSON(w, feedbackResponse{Total: total, Records: items})
}

// Stats summarizes the log. ?top=n sets how many frequent tokens to return.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	top := h.topLimit
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		top = n
	}

	records, err := h.store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats := domain.SummarizeFeedback(records, top)
	writeJSON(w, statsResponse{FeedbackStats: stats, LikedRatio: stats.LikedRatio()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
