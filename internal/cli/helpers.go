package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// fanout sends every metric to each exporter and joins their errors.
type fanout []ports.MetricsExporter

func (f fanout) ExportTraining(ctx context.Context, m *ports.TrainingMetrics) error {
	var errs []error
	for _, e := range f {
		errs = append(errs, e.ExportTraining(ctx, m))
	}
	return errors.Join(errs...)
}

func (f fanout) ExportFeedback(ctx context.Context, m *ports.FeedbackMetrics) error {
	var errs []error
	for _, e := range f {
		errs = append(errs, e.ExportFeedback(ctx, m))
	}
	return errors.Join(errs...)
}

func (f fanout) Close(ctx context.Context) error {
	var errs []error
	for _, e := range f {
		errs = append(errs, e.Close(ctx))
	}
	return errors.Join(errs...)
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
