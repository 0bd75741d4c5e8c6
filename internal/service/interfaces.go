// Package service defines the contracts between the CLI, the note store,
// and the recurrence engine.
package service

import (
	"context"
	"time"

	"github.com/alderwick/almanac/internal/model"
)

// NoteFilter narrows note listings.
type NoteFilter struct {
	Category string
	// Kind filters by repeat kind when non-empty.
	Kind   model.RepeatKind
	Limit  int
	Offset int
}

// NoteStore is the persistence contract for event notes and their
// precomputed occurrence caches. The engine itself never talks to storage
// directly; linked-event lookups go through engine.NoteResolver, which the
// store also implements.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, id string) (*model.Note, error)
	GetNoteByName(ctx context.Context, name string) (*model.Note, error)
	ListNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id string) error

	// Random-occurrence cache. The cache is an optimization owned by the
	// store: saving a note invalidates its cache, and readers must handle
	// a missing cache by falling back to the engine's day scan.
	SaveOccurrenceCache(ctx context.Context, noteID string, generatedAt time.Time, dates []model.Date) error
	GetOccurrenceCache(ctx context.Context, noteID string) ([]model.Date, bool, error)
	InvalidateOccurrenceCache(ctx context.Context, noteID string) error

	Close() error
}
