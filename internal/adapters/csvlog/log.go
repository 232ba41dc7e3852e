// Package csvlog stores feedback as a comma-delimited file: a header row
// "listener_response,beat0,...,beatN-1" followed by one row per judgment.
package csvlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// FileName is the log's name inside the data directory.
const FileName = "feedback.csv"

type FeedbackLog struct {
	path string
}

func New(dataDir string) *FeedbackLog {
	return &FeedbackLog{path: filepath.Join(dataDir, FileName)}
}

func (l *FeedbackLog) Path() string {
	return l.path
}

// Init writes a header-only log. The file is written to a temporary name
// and renamed so a crash never leaves a half-written header.
func (l *FeedbackLog) Init(ctx context.Context, width int, overwrite bool) error {
	if width < 1 {
		return fmt.Errorf("%w: log width must be at least 1, got %d", domain.ErrValidation, width)
	}
	if !overwrite {
		if _, err := os.Stat(l.path); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrLogExists, l.path)
		}
	}

	data, err := encode(domain.BeatHeader(width))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".feedback-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary log: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write log header: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary log: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to install log: %w", err)
	}
	return nil
}

// Append validates rec and writes its row with a single write call. A log
// that does not exist yet is created with a header sized to rec.
func (l *FeedbackLog) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	row := make([]string, 0, len(rec.Tokens)+1)
	row = append(row, rec.Label.Field())
	row = append(row, rec.Tokens...)
	data, err := encode(row)
	if err != nil {
		return err
	}

	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		if err := l.Init(ctx, len(rec.Tokens), false); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open feedback log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to append feedback: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close feedback log: %w", err)
	}
	return nil
}

// List reads every record in file order. A missing log reads as empty.
func (l *FeedbackLog) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback log: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Width returns the sequence width of the existing log, taken from its
// first row, or zero when there is no log yet.
func (l *FeedbackLog) Width(ctx context.Context) (int, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open feedback log: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	row, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read feedback log: %w", err)
	}
	return len(row) - 1, nil
}

// Read parses a feedback log. The header row is optional.
func Read(r io.Reader) ([]domain.FeedbackRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records []domain.FeedbackRecord
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read feedback log: %w", err)
		}
		if line == 1 && len(row) > 0 && row[0] == domain.LabelHeader {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: line %d has no tokens", domain.ErrValidation, line)
		}

		label, err := domain.ParseLabel(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, domain.FeedbackRecord{Label: label, Tokens: row[1:]})
	}
}

func encode(row []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	return buf.Bytes(), nil
}
