package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/alderwick/almanac/internal/model"
)

// SaveOccurrenceCache replaces a note's precomputed occurrence list. Dates
// are stored at day precision; the engine filters them per query.
func (s *SQLiteStore) SaveOccurrenceCache(ctx context.Context, noteID string, generatedAt time.Time, dates []model.Date) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(noteID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrence_cache WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("failed to clear occurrence cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO occurrence_cache (note_id, year, month, day) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range dates {
		if _, err := stmt.ExecContext(ctx, noteID, d.Year, d.Month, d.Day); err != nil {
			return fmt.Errorf("failed to insert cached occurrence: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO occurrence_cache_meta (note_id, generated_at) VALUES (?, ?)
		ON CONFLICT(note_id) DO UPDATE SET generated_at = excluded.generated_at`,
		noteID, generatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record cache metadata: %w", err)
	}

	return tx.Commit()
}

// GetOccurrenceCache returns a note's cached occurrences in ascending
// order. The second result is false when no cache has been generated.
func (s *SQLiteStore) GetOccurrenceCache(ctx context.Context, noteID string) ([]model.Date, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateID(noteID); err != nil {
		return nil, false, err
	}

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occurrence_cache_meta WHERE note_id = ?`, noteID).Scan(&exists); err != nil {
		return nil, false, fmt.Errorf("failed to check cache metadata: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, month, day FROM occurrence_cache
		WHERE note_id = ? ORDER BY year, month, day`, noteID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query occurrence cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []model.Date
	for rows.Next() {
		var d model.Date
		if err := rows.Scan(&d.Year, &d.Month, &d.Day); err != nil {
			return nil, false, fmt.Errorf("failed to scan cached occurrence: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, true, rows.Err()
}

// InvalidateOccurrenceCache drops a note's cache so it will be regenerated.
func (s *SQLiteStore) InvalidateOccurrenceCache(ctx context.Context, noteID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(noteID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM occurrence_cache WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("failed to clear occurrence cache: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM occurrence_cache_meta WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("failed to clear cache metadata: %w", err)
	}
	return nil
}
