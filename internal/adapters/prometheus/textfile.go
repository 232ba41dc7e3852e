// Package prometheus writes training and feedback metrics in the
// Prometheus text exposition format, for pickup by node_exporter's
// textfile collector.
package prometheus

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// TextfileExporter keeps metrics in a private registry and writes them to
// path on every export so the file always reflects the latest state.
type TextfileExporter struct {
	path     string
	registry *prometheus.Registry

	trainingRuns prometheus.Counter
	samples      prometheus.Gauge
	columns      prometheus.Gauge
	nonZero      prometheus.Gauge
	objective    prometheus.Gauge
	fitDuration  prometheus.Histogram
	feedback     *prometheus.CounterVec
}

func NewTextfileExporter(path string) (*TextfileExporter, error) {
	if path == "" {
		return nil, fmt.Errorf("metrics textfile path not configured")
	}

	e := &TextfileExporter{
		path:     path,
		registry: prometheus.NewRegistry(),
		trainingRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orpheus_training_runs_total",
			Help: "Total number of preference model fits.",
		}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orpheus_training_samples",
			Help: "Window samples in the last training run.",
		}),
		columns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orpheus_feature_columns",
			Help: "Indicator columns in the last training run.",
		}),
		nonZero: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orpheus_model_nonzero_weights",
			Help: "Weights left non-zero by the L1 penalty in the last fit.",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orpheus_model_objective",
			Help: "Penalized objective value at the last fit.",
		}),
		fitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orpheus_training_duration_seconds",
			Help:    "Wall-clock duration of training runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orpheus_feedback_total",
			Help: "Total number of captured judgments.",
		}, []string{"label"}),
	}

	e.registry.MustRegister(
		e.trainingRuns,
		e.samples,
		e.columns,
		e.nonZero,
		e.objective,
		e.fitDuration,
		e.feedback,
	)

	return e, nil
}

func (e *TextfileExporter) ExportTraining(ctx context.Context, m *ports.TrainingMetrics) error {
	e.trainingRuns.Inc()
	e.samples.Set(float64(m.Samples))
	e.columns.Set(float64(m.Columns))
	e.nonZero.Set(float64(m.NonZeroWeights))
	e.objective.Set(m.Objective)
	e.fitDuration.Observe(m.DurationSeconds)
	return e.flush()
}

func (e *TextfileExporter) ExportFeedback(ctx context.Context, m *ports.FeedbackMetrics) error {
	label := "disliked"
	if m.Liked {
		label = "liked"
	}
	e.feedback.WithLabelValues(label).Inc()
	return e.flush()
}

// Close writes the final state.
func (e *TextfileExporter) Close(ctx context.Context) error {
	return e.flush()
}

func (e *TextfileExporter) flush() error {
	if err := prometheus.WriteToTextfile(e.path, e.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
