package otel

import (
	"context"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportTraining(ctx context.Context, m *ports.TrainingMetrics) error {
	return nil
}

func (e *NoOpExporter) ExportFeedback(ctx context.Context, m *ports.FeedbackMetrics) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
