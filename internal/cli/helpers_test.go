package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emiliopalmerini/orpheus/internal/adapters/csvlog"
	"github.com/emiliopalmerini/orpheus/internal/adapters/storage"
	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/model"
	"github.com/emiliopalmerini/orpheus/internal/pipeline"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

type mockExporter struct {
	training int
	feedback int
	closed   bool
	err      error
}

func (m *mockExporter) ExportTraining(_ context.Context, _ *ports.TrainingMetrics) error {
	m.training++
	return m.err
}

func (m *mockExporter) ExportFeedback(_ context.Context, _ *ports.FeedbackMetrics) error {
	m.feedback++
	return m.err
}

func (m *mockExporter) Close(_ context.Context) error {
	m.closed = true
	return m.err
}

func TestFanout(t *testing.T) {
	failing := &mockExporter{err: errors.New("collector down")}
	ok := &mockExporter{}
	f := fanout{failing, ok}
	ctx := context.Background()

	if err := f.ExportTraining(ctx, &ports.TrainingMetrics{}); err == nil || !strings.Contains(err.Error(), "collector down") {
		t.Errorf("expected the failing exporter's error, got %v", err)
	}
	if err := f.ExportFeedback(ctx, &ports.FeedbackMetrics{}); err == nil {
		t.Error("expected an error")
	}
	_ = f.Close(ctx)

	if ok.training != 1 || ok.feedback != 1 || !ok.closed {
		t.Errorf("a failing exporter must not stop the others: %+v", ok)
	}
}

func TestTopWeights(t *testing.T) {
	trained := &pipeline.Trained{
		Dataset: &features.Dataset{Schema: &features.Schema{
			Width:        1,
			MaxOrder:     1,
			Interactions: features.Interactions(1, 1),
			Columns: []features.Column{
				{Interaction: 0, Value: "A-4"},
				{Interaction: 0, Value: "B-4"},
				{Interaction: 0, Value: "rest"},
			},
		}},
		Model: &model.Model{Weights: []float64{0.5, 0, -1.5}},
	}

	got := topWeights(trained, 5)
	if len(got) != 2 {
		t.Fatalf("zero weights should be dropped, got %v", got)
	}
	if got[0].name != "beat0_rest" || got[0].weight != -1.5 || got[1].name != "beat0_A-4" {
		t.Errorf("unexpected order %v", got)
	}
	if got := topWeights(trained, 1); len(got) != 1 {
		t.Errorf("expected the limit to apply, got %v", got)
	}
}

func TestPrintStats(t *testing.T) {
	var b strings.Builder
	printStats(&b, domain.FeedbackStats{
		Records: 4, Liked: 3, Disliked: 1, Tokens: 16,
		Top: []domain.TokenCount{{Token: "A-4", Count: 7, Liked: 6}},
	})
	out := b.String()
	for _, want := range []string{"Records:   4", "Liked:     3 (75.0%)", "A-4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveProfilePath(t *testing.T) {
	dir := t.TempDir()
	if got := resolveProfilePath("explicit.yaml", dir); got != "explicit.yaml" {
		t.Errorf("explicit path should win, got %q", got)
	}
	if got := resolveProfilePath("", dir); got != "" {
		t.Errorf("missing profile should fall back to defaults, got %q", got)
	}
}

type storeWithoutWidth struct {
	ports.FeedbackStore
}

func TestExistingLogError(t *testing.T) {
	ctx := context.Background()
	log := csvlog.New(t.TempDir())
	if err := log.Init(ctx, 3, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tests := []struct {
		name  string
		store ports.FeedbackStore
		want  int
		msg   string
	}{
		{"matching width", log, 3, "with 3-event sequences (use --force"},
		{"mismatched width", log, 8, "with 3-event sequences but the profile asks for 8"},
		{"store cannot report", storeWithoutWidth{log}, 8, "already exists (use --force"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := existingLogError(ctx, tt.store, tt.want, domain.ErrLogExists)
			if !errors.Is(err, domain.ErrLogExists) {
				t.Errorf("expected ErrLogExists, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not contain %q", err, tt.msg)
			}
		})
	}
}

func TestSummarizeSnapshot(t *testing.T) {
	snap := &storage.Snapshot{
		Columns:   []string{"a", "b", "c", "d"},
		Weights:   []float64{0.5, 0, -2, 1},
		Intercept: 0.1,
		C:         2,
		NonZero:   3,
	}
	sum := summarizeSnapshot(snap, 2)
	if sum.Columns != 4 || sum.NonZero != 3 || sum.C != 2 {
		t.Errorf("unexpected summary %+v", sum)
	}
	want := []featureWeight{{"c", -2}, {"d", 1}}
	if len(sum.Top) != len(want) {
		t.Fatalf("top = %v, want %v", sum.Top, want)
	}
	for i := range want {
		if sum.Top[i] != want[i] {
			t.Errorf("top[%d] = %v, want %v", i, sum.Top[i], want[i])
		}
	}
}
