package pipeline

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/config"
	"github.com/emiliopalmerini/orpheus/internal/model"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

type MockStore struct {
	Records    []domain.FeedbackRecord
	AppendFunc func(ctx context.Context, rec domain.FeedbackRecord) error
	ListFunc   func(ctx context.Context) ([]domain.FeedbackRecord, error)
}

func (m *MockStore) Init(ctx context.Context, width int, overwrite bool) error {
	m.Records = nil
	return nil
}

func (m *MockStore) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.Records, nil
}

type MockPrompter struct {
	Answers []bool
	Err     error
	Asked   int
}

func (m *MockPrompter) AskYesNo(prompt string) (bool, error) {
	m.Asked++
	if m.Err != nil {
		return false, m.Err
	}
	if len(m.Answers) == 0 {
		return true, nil
	}
	a := m.Answers[0]
	m.Answers = m.Answers[1:]
	return a, nil
}

type playedSegment struct {
	Hz float64
	Ms float64
}

// MockPlayer records segments instead of sleeping. Rests have Hz 0.
type MockPlayer struct {
	Played []playedSegment
	Err    error
}

func (m *MockPlayer) PlayTone(ctx context.Context, hz, ms float64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Played = append(m.Played, playedSegment{Hz: hz, Ms: ms})
	return nil
}

func (m *MockPlayer) Rest(ctx context.Context, ms float64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Played = append(m.Played, playedSegment{Ms: ms})
	return nil
}

type MockArtifacts struct {
	Tables map[string]features.Table
	Models int
	Err    error
}

func (m *MockArtifacts) StoreTable(ctx context.Context, name string, table features.Table) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Tables == nil {
		m.Tables = make(map[string]features.Table)
	}
	m.Tables[name] = table
	return name + ".csv", nil
}

func (m *MockArtifacts) StoreModel(ctx context.Context, schema *features.Schema, mdl *model.Model) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Models++
	return "model.json", nil
}

type MockMetrics struct {
	Training []*ports.TrainingMetrics
	Feedback []*ports.FeedbackMetrics
	Err      error
}

func (m *MockMetrics) ExportTraining(ctx context.Context, tm *ports.TrainingMetrics) error {
	m.Training = append(m.Training, tm)
	return m.Err
}

func (m *MockMetrics) ExportFeedback(ctx context.Context, fm *ports.FeedbackMetrics) error {
	m.Feedback = append(m.Feedback, fm)
	return m.Err
}

func (m *MockMetrics) Close(ctx context.Context) error {
	return nil
}

func testProfile() config.Profile {
	return config.Profile{
		Notes:            []string{"A-4", "B-4"},
		Continuation:     0.1,
		Rest:             0.1,
		Prior:            config.PriorLinear,
		BPM:              120,
		Beats:            4,
		Length:           4,
		WindowWidth:      2,
		InteractionOrder: 2,
		Bootstrap:        1,
		C:                10,
	}
}

type fixture struct {
	store     *MockStore
	prompter  *MockPrompter
	player    *MockPlayer
	artifacts *MockArtifacts
	metrics   *MockMetrics
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     &MockStore{},
		prompter:  &MockPrompter{},
		player:    &MockPlayer{},
		artifacts: &MockArtifacts{},
		metrics:   &MockMetrics{},
	}
	svc, err := New(testProfile(), Deps{
		Store:     f.store,
		Prompter:  f.prompter,
		Player:    f.player,
		Artifacts: f.artifacts,
		Metrics:   f.metrics,
		Rand:      rand.New(rand.NewPCG(7, 11)),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.svc = svc
	return f
}

// separable fills the store with liked all-A and disliked all-B records.
func (f *fixture) separable() {
	for i := 0; i < 3; i++ {
		f.store.Records = append(f.store.Records,
			domain.FeedbackRecord{Label: domain.Liked, Tokens: []string{"A-4", "A-4", "A-4", "A-4"}},
			domain.FeedbackRecord{Label: domain.Disliked, Tokens: []string{"B-4", "B-4", "B-4", "B-4"}},
		)
	}
}
