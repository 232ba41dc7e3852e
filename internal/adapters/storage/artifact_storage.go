package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/orpheus/internal/features"
	"github.com/emiliopalmerini/orpheus/internal/model"
)

const modelFile = "model.json"

// ArtifactStorage writes training artifacts under <dataDir>/artifacts.
type ArtifactStorage struct {
	baseDir string
}

func NewArtifactStorage(dataDir string) (*ArtifactStorage, error) {
	artifactsDir := filepath.Join(dataDir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	return &ArtifactStorage{baseDir: artifactsDir}, nil
}

func (s *ArtifactStorage) StoreTable(ctx context.Context, name string, table features.Table) (string, error) {
	destPath := filepath.Join(s.baseDir, name+".csv")

	err := s.writeAtomic(destPath, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(table.Header); err != nil {
			return err
		}
		if err := w.WriteAll(table.Rows); err != nil {
			return err
		}
		return w.Error()
	})
	if err != nil {
		return "", fmt.Errorf("failed to write %s table: %w", name, err)
	}

	return destPath, nil
}

// Snapshot is the on-disk form of a fitted model. Weights line up with
// Columns.
type Snapshot struct {
	Schema    *features.Schema `json:"schema"`
	Columns   []string         `json:"columns"`
	Weights   []float64        `json:"weights"`
	Intercept float64          `json:"intercept"`
	C         float64          `json:"c"`
	NonZero   int              `json:"non_zero"`
}

func (s *ArtifactStorage) StoreModel(ctx context.Context, schema *features.Schema, m *model.Model) (string, error) {
	destPath := filepath.Join(s.baseDir, modelFile)
	snap := Snapshot{
		Schema:    schema,
		Columns:   schema.ColumnNames(),
		Weights:   m.Weights,
		Intercept: m.Intercept,
		C:         m.C,
		NonZero:   m.NonZero(),
	}

	err := s.writeAtomic(destPath, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write model snapshot: %w", err)
	}

	return destPath, nil
}

// LoadModel reads the last stored snapshot.
func (s *ArtifactStorage) LoadModel(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, modelFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read model snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode model snapshot: %w", err)
	}
	return &snap, nil
}

// writeAtomic writes through a temporary file in the same directory and
// renames it over destPath once write succeeds.
func (s *ArtifactStorage) writeAtomic(destPath string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}
