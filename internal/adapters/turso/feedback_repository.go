package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/database"
)

const maxRetries = 2

// FeedbackRepository stores the feedback log in libsql. Each record is a
// row in feedback_records plus one feedback_tokens row per position,
// written in a single transaction.
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Init(ctx context.Context, width int, overwrite bool) error {
	if width < 1 {
		return fmt.Errorf("%w: log width must be at least 1, got %d", domain.ErrValidation, width)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback_log_meta`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to read log metadata: %w", err)
	}
	if existing > 0 && !overwrite {
		return domain.ErrLogExists
	}

	for _, stmt := range []string{
		`DELETE FROM feedback_tokens`,
		`DELETE FROM feedback_records`,
		`DELETE FROM feedback_log_meta`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset feedback log: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO feedback_log_meta (id, width) VALUES (1, ?)`, width); err != nil {
		return fmt.Errorf("failed to write log metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := database.WithRetry(ctx, maxRetries, func() (struct{}, error) {
		return struct{}{}, r.append(ctx, rec)
	})
	return err
}

func (r *FeedbackRepository) append(ctx context.Context, rec domain.FeedbackRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO feedback_log_meta (id, width) VALUES (1, ?)`, len(rec.Tokens)); err != nil {
		return fmt.Errorf("failed to write log metadata: %w", err)
	}

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO feedback_records (id, label, width) VALUES (?, ?, ?)`,
		id, int(rec.Label), len(rec.Tokens)); err != nil {
		return fmt.Errorf("failed to insert feedback record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO feedback_tokens (record_id, position, token) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for pos, tok := range rec.Tokens {
		if _, err := stmt.ExecContext(ctx, id, pos, tok); err != nil {
			return fmt.Errorf("failed to insert token %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]domain.FeedbackRecord, error) {
	return database.WithRetry(ctx, maxRetries, func() ([]domain.FeedbackRecord, error) {
		return r.list(ctx)
	})
}

func (r *FeedbackRepository) list(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.label, t.token
		FROM feedback_records r
		JOIN feedback_tokens t ON t.record_id = r.id
		ORDER BY r.seq, t.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.FeedbackRecord
	var lastID string
	for rows.Next() {
		var id, token string
		var label int
		if err := rows.Scan(&id, &label, &token); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		if id != lastID {
			records = append(records, domain.FeedbackRecord{Label: domain.Label(label)})
			lastID = id
		}
		last := &records[len(records)-1]
		last.Tokens = append(last.Tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback rows: %w", err)
	}
	return records, nil
}

// Width returns the sequence width recorded when the log was initialized,
// or zero for a log that has never been written.
func (r *FeedbackRepository) Width(ctx context.Context) (int, error) {
	var width int
	err := r.db.QueryRowContext(ctx, `SELECT width FROM feedback_log_meta WHERE id = 1`).Scan(&width)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read log width: %w", err)
	}
	return width, nil
}
