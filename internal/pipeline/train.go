package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/model"
	"github.com/emiliopalmerini/orpheus/internal/ports"
)

// Trained is a fitted model together with the schema that maps windows onto
// its inputs.
type Trained struct {
	Dataset *features.Dataset
	Model   *model.Model
}

// Score is P(liked) for a full-width window.
func (t *Trained) Score(window []string) (float64, error) {
	x, err := t.Dataset.Schema.Vector(window)
	if err != nil {
		return 0, err
	}
	return t.Model.Score(x)
}

// Train rebuilds the schema from the whole log and fits a fresh model.
// Every failure is reported as domain.ErrTraining.
func (s *Service) Train(ctx context.Context) (*Trained, error) {
	start := s.now()

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, trainingError("load feedback", err)
	}
	samples, err := features.Expand(records, s.profile.WindowWidth, s.profile.ExpandOptions())
	if err != nil {
		return nil, trainingError("expand windows", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %d records yield no complete windows", domain.ErrTraining, len(records))
	}
	ds, err := features.Build(samples, s.profile.InteractionOrder)
	if err != nil {
		return nil, trainingError("build schema", err)
	}
	m, err := model.Fit(ds.X, ds.Y, s.profile.ModelOptions())
	if err != nil {
		return nil, trainingError("fit model", err)
	}
	elapsed := s.now().Sub(start)

	s.logger.Info("model trained",
		"records", len(records),
		"samples", len(samples),
		"columns", len(ds.Schema.Columns),
		"nonzero", m.NonZero(),
		"iterations", m.Iterations,
		"duration", elapsed)

	trained := &Trained{Dataset: ds, Model: m}
	s.persist(ctx, trained)

	if s.metrics != nil {
		tm := &ports.TrainingMetrics{
			SessionID:       s.sessionID,
			Records:         len(records),
			Samples:         len(samples),
			Columns:         len(ds.Schema.Columns),
			NonZeroWeights:  m.NonZero(),
			Iterations:      m.Iterations,
			Objective:       m.Objective,
			DurationSeconds: elapsed.Seconds(),
		}
		if err := s.metrics.ExportTraining(ctx, tm); err != nil {
			s.logger.Warn("failed to export training metrics", "error", err)
		}
	}
	return trained, nil
}

// persist writes the intermediate tables and the model. Failures are logged
// and never abort training.
func (s *Service) persist(ctx context.Context, t *Trained) {
	if s.artifacts == nil {
		return
	}
	tables := []struct {
		name  string
		table features.Table
	}{
		{features.TableExpanded, features.ExpandedTable(t.Dataset.Samples, s.profile.WindowWidth)},
		{features.TableInteractions, t.Dataset.InteractionTable()},
		{features.TableIndicators, t.Dataset.IndicatorTable()},
	}
	for _, tb := range tables {
		path, err := s.artifacts.StoreTable(ctx, tb.name, tb.table)
		if err != nil {
			s.logger.Warn("failed to store table", "table", tb.name, "error", err)
			continue
		}
		s.logger.Debug("table stored", "table", tb.name, "path", path)
	}
	path, err := s.artifacts.StoreModel(ctx, t.Dataset.Schema, t.Model)
	if err != nil {
		s.logger.Warn("failed to store model", "error", err)
		return
	}
	s.logger.Debug("model stored", "path", path)
}

func trainingError(stage string, err error) error {
	if errors.Is(err, domain.ErrTraining) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTraining, stage, err)
}
