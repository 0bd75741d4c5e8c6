package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alderwick/almanac/internal/common"
	"github.com/alderwick/almanac/internal/model"
	"github.com/alderwick/almanac/internal/service"
)

// CreateNote stores a new note. The note's spec must validate.
func (s *SQLiteStore) CreateNote(ctx context.Context, note *model.Note) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("note cannot be nil")
	}
	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidSpec, err)
	}

	specJSON, err := json.Marshal(note.Spec)
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (id, name, description, category, spec, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.Name, note.Description, note.Category, string(specJSON), now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: note %s", common.ErrDuplicateEntry, note.ID)
		}
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetNote fetches one note by ID.
func (s *SQLiteStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category, spec, created_at, updated_at
		FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: note %s", common.ErrNotFound, id)
	}
	return note, err
}

// GetNoteByName fetches one note by its unique name.
func (s *SQLiteStore) GetNoteByName(ctx context.Context, name string) (*model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: note name is required", common.ErrInvalidConfig)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category, spec, created_at, updated_at
		FROM notes WHERE name = ?`, name)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: note %q", common.ErrNotFound, name)
	}
	return note, err
}

// ListNotes returns notes matching the filter, ordered by name.
func (s *SQLiteStore) ListNotes(ctx context.Context, filter service.NoteFilter) ([]model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, name, description, category, spec, created_at, updated_at FROM notes`
	var clauses []string
	var args []any
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		// Kind filtering happens after decode; the kind lives inside the
		// spec JSON.
		if filter.Kind != "" && note.Spec.Kind() != filter.Kind {
			continue
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites a note and invalidates its occurrence cache, since a
// changed spec makes precomputed occurrences stale.
func (s *SQLiteStore) UpdateNote(ctx context.Context, note *model.Note) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("note cannot be nil")
	}
	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidSpec, err)
	}

	specJSON, err := json.Marshal(note.Spec)
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET name = ?, description = ?, category = ?, spec = ?, updated_at = ?
		WHERE id = ?`,
		note.Name, note.Description, note.Category, string(specJSON), time.Now().UTC(), note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: note %s", common.ErrNotFound, note.ID)
	}

	return s.InvalidateOccurrenceCache(ctx, note.ID)
}

// DeleteNote removes a note; its cached occurrences cascade away with it.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: note %s", common.ErrNotFound, id)
	}
	return nil
}

// ResolveNoteSpec implements engine.NoteResolver so linked events can look
// up their target's schedule. Lookup failures are non-matches, not errors.
func (s *SQLiteStore) ResolveNoteSpec(id string) (*model.RecurrenceSpec, bool) {
	note, err := s.GetNote(context.Background(), id)
	if err != nil {
		return nil, false
	}
	return &note.Spec, true
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*model.Note, error) {
	var note model.Note
	var specJSON string
	if err := row.Scan(&note.ID, &note.Name, &note.Description, &note.Category,
		&specJSON, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specJSON), &note.Spec); err != nil {
		return nil, fmt.Errorf("failed to decode spec for note %s: %w", note.ID, err)
	}
	return &note, nil
}
