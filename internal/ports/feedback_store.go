package ports

import (
	"context"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// FeedbackStore is the append-only log of judged sequences.
type FeedbackStore interface {
	// Init creates an empty log sized for sequences of width events. It
	// fails if a log already exists unless overwrite is set.
	Init(ctx context.Context, width int, overwrite bool) error
	// Append commits rec or leaves the log untouched.
	Append(ctx context.Context, rec domain.FeedbackRecord) error
	// List returns every record in append order.
	List(ctx context.Context) ([]domain.FeedbackRecord, error)
}
