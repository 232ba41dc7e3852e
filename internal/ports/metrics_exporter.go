package ports

import "context"

// MetricsExporter exports training and feedback metrics to an external
// observability system.
type MetricsExporter interface {
	// ExportTraining records one completed training pass.
	ExportTraining(ctx context.Context, m *TrainingMetrics) error
	// ExportFeedback records one captured judgment.
	ExportFeedback(ctx context.Context, m *FeedbackMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// TrainingMetrics describes one fit of the preference model.
type TrainingMetrics struct {
	SessionID       string
	Records         int
	Samples         int
	Columns         int
	NonZeroWeights  int
	Iterations      int
	Objective       float64
	DurationSeconds float64
}

// FeedbackMetrics describes one captured judgment.
type FeedbackMetrics struct {
	SessionID string
	Liked     bool
	Events    int
}
