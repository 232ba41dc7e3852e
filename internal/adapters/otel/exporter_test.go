package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/orpheus/internal/ports"
)

func TestNewExporter_Disabled(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"}); err == nil {
		t.Error("expected an error for a disabled exporter")
	}
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected an error for a missing endpoint")
	}
}

func TestExporter_RecordsInstruments(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	e, err := newExporter(provider)
	if err != nil {
		t.Fatalf("newExporter: %v", err)
	}
	t.Cleanup(func() { _ = e.Close(ctx) })

	if err := e.ExportTraining(ctx, &ports.TrainingMetrics{SessionID: "s1", Samples: 12, Columns: 40, NonZeroWeights: 5}); err != nil {
		t.Fatalf("ExportTraining: %v", err)
	}
	if err := e.ExportFeedback(ctx, &ports.FeedbackMetrics{SessionID: "s1", Liked: true}); err != nil {
		t.Fatalf("ExportFeedback: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	for _, want := range []string{
		"orpheus_training_runs_total",
		"orpheus_training_samples",
		"orpheus_feature_columns",
		"orpheus_model_nonzero_weights",
		"orpheus_feedback_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not recorded", want)
		}
	}
}

func TestNoOpExporter(t *testing.T) {
	var e ports.MetricsExporter = NewNoOpExporter()
	ctx := context.Background()
	if err := e.ExportTraining(ctx, &ports.TrainingMetrics{}); err != nil {
		t.Errorf("ExportTraining: %v", err)
	}
	if err := e.Close(ctx); err != nil {
		t.Errorf("Close: %v", err)
	}
}
