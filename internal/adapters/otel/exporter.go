package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

const (
	serviceName    = "orpheus"
	serviceVersion = "1.0.0"
)

// Exporter exports training and feedback metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	trainingTotal metric.Int64Counter
	samplesHist   metric.Int64Histogram
	columnsHist   metric.Int64Histogram
	nonZeroHist   metric.Int64Histogram
	fitDuration   metric.Float64Histogram
	feedbackTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

// newExporter registers the instruments on provider.
func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)
	e := &Exporter{provider: provider}

	var err error
	if e.trainingTotal, err = meter.Int64Counter(
		"orpheus_training_runs_total",
		metric.WithDescription("Total number of preference model fits"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, fmt.Errorf("creating training counter: %w", err)
	}

	if e.samplesHist, err = meter.Int64Histogram(
		"orpheus_training_samples",
		metric.WithDescription("Window samples per training run"),
		metric.WithUnit("{sample}"),
	); err != nil {
		return nil, fmt.Errorf("creating samples histogram: %w", err)
	}

	if e.columnsHist, err = meter.Int64Histogram(
		"orpheus_feature_columns",
		metric.WithDescription("Indicator columns per training run"),
		metric.WithUnit("{column}"),
	); err != nil {
		return nil, fmt.Errorf("creating columns histogram: %w", err)
	}

	if e.nonZeroHist, err = meter.Int64Histogram(
		"orpheus_model_nonzero_weights",
		metric.WithDescription("Weights left non-zero by the L1 penalty"),
		metric.WithUnit("{weight}"),
	); err != nil {
		return nil, fmt.Errorf("creating weights histogram: %w", err)
	}

	if e.fitDuration, err = meter.Float64Histogram(
		"orpheus_training_duration_seconds",
		metric.WithDescription("Wall-clock duration of a training run"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	if e.feedbackTotal, err = meter.Int64Counter(
		"orpheus_feedback_total",
		metric.WithDescription("Total number of captured judgments"),
		metric.WithUnit("{judgment}"),
	); err != nil {
		return nil, fmt.Errorf("creating feedback counter: %w", err)
	}

	return e, nil
}

func (e *Exporter) ExportTraining(ctx context.Context, m *ports.TrainingMetrics) error {
	opt := metric.WithAttributes(attribute.String("session_id", m.SessionID))

	e.trainingTotal.Add(ctx, 1, opt)
	e.samplesHist.Record(ctx, int64(m.Samples), opt)
	e.columnsHist.Record(ctx, int64(m.Columns), opt)
	e.nonZeroHist.Record(ctx, int64(m.NonZeroWeights), opt)
	e.fitDuration.Record(ctx, m.DurationSeconds, opt)

	return nil
}

func (e *Exporter) ExportFeedback(ctx context.Context, m *ports.FeedbackMetrics) error {
	label := "disliked"
	if m.Liked {
		label = "liked"
	}
	e.feedbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session_id", m.SessionID),
		attribute.String("label", label),
	))
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
