package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/oagrade/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a history repository implementing System over an open
// database whose schema has been migrated with Migrations.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "history"),
	}
}

func (r *repo) List(ctx context.Context) ([]Record, error) {
	q := `SELECT ` + recordColumns + `
		FROM classification_records
		ORDER BY created_at DESC, id DESC`

	records, err := repository.QueryMany(ctx, r.db, q, nil, scanRecord)
	if err != nil {
		if errors.Is(err, ErrCorruptRecord) {
			return nil, fmt.Errorf("list records: %w", err)
		}
		return nil, fmt.Errorf("%w: list records: %w", ErrStoreUnavailable, err)
	}

	return records, nil
}

// Upsert writes the record in a single INSERT ... ON CONFLICT statement, so
// concurrent writers to the same id replace each other atomically.
func (r *repo) Upsert(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	q := `INSERT INTO classification_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source_image_ref = excluded.source_image_ref,
			predicted_grade = excluded.predicted_grade,
			predicted_confidence = excluded.predicted_confidence,
			heatmap_image_ref = excluded.heatmap_image_ref,
			created_at = excluded.created_at,
			grade_confidences = excluded.grade_confidences`

	if _, err := r.db.ExecContext(ctx, q, recordArgs(rec)...); err != nil {
		return fmt.Errorf("%w: upsert %s: %w", ErrWriteFailed, rec.ID, err)
	}

	r.logger.Info("record stored",
		"id", rec.ID,
		"grade", rec.PredictedGrade,
		"confidence", rec.PredictedConfidence,
	)
	return nil
}

func (r *repo) Find(ctx context.Context, id string) (Record, bool, error) {
	q := `SELECT ` + recordColumns + `
		FROM classification_records
		WHERE id = ?`

	rec, ok, err := repository.QueryOptional(ctx, r.db, q, []any{id}, scanRecord)
	if err != nil {
		if errors.Is(err, ErrCorruptRecord) {
			return Record{}, false, fmt.Errorf("find %s: %w", id, err)
		}
		return Record{}, false, fmt.Errorf("%w: find %s: %w", ErrStoreUnavailable, id, err)
	}

	return rec, ok, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM classification_records WHERE id = ?",
		id,
	)
	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrWriteFailed)
		if errors.Is(mapped, ErrNotFound) {
			return fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("%w: delete %s: %w", ErrWriteFailed, id, err)
	}

	r.logger.Info("record deleted", "id", id)
	return nil
}
