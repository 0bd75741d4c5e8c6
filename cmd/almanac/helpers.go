package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/alderwick/almanac/internal/calendar"
	"github.com/alderwick/almanac/internal/common"
	"github.com/alderwick/almanac/internal/config"
	"github.com/alderwick/almanac/internal/engine"
	"github.com/alderwick/almanac/internal/model"
	"github.com/alderwick/almanac/internal/storage"
)

// loadCalendar returns the configured calendar, falling back to the
// built-in Gregorian definition when none is configured.
func loadCalendar() (*calendar.Calendar, error) {
	name := viper.GetString("calendar")
	if name == "" {
		return calendar.Gregorian(), nil
	}
	path := config.FindCalendarFile(name)
	cal, err := calendar.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar %q: %w", name, err)
	}
	return cal, nil
}

func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("db")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// newEngine wires the calendar and the note store together. The store
// may be nil when no linked or event-anchored specs are involved.
func newEngine(store *storage.SQLiteStore) (*engine.Engine, error) {
	cal, err := loadCalendar()
	if err != nil {
		return nil, err
	}
	var resolver engine.NoteResolver
	if store != nil {
		resolver = store
	}
	return engine.New(cal, resolver), nil
}

// parseDate parses "year/month/day" with a 1-based month, as dates are
// displayed. Year may be negative.
func parseDate(text string) (model.Date, error) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 3 {
		return model.Date{}, fmt.Errorf("invalid date %q: expected year/month/day", text)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid year in %q: %w", text, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid month in %q: %w", text, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid day in %q: %w", text, err)
	}
	if month < 1 {
		return model.Date{}, fmt.Errorf("invalid month in %q: must be 1 or greater", text)
	}
	return model.Date{Year: year, Month: month - 1, Day: day}, nil
}

// resolveSpec loads a note's recurrence spec by ID or name, or parses
// an inline JSON spec when the argument starts with '{'.
func resolveSpec(ctx context.Context, store *storage.SQLiteStore, arg string) (*model.RecurrenceSpec, *model.Note, error) {
	if strings.HasPrefix(strings.TrimSpace(arg), "{") {
		spec, err := model.ParseSpec([]byte(arg))
		if err != nil {
			return nil, nil, err
		}
		return spec, nil, nil
	}
	note, err := findNote(ctx, store, arg)
	if err != nil {
		return nil, nil, err
	}
	return &note.Spec, note, nil
}

// findNote looks a note up by ID first, then by name.
func findNote(ctx context.Context, store *storage.SQLiteStore, idOrName string) (*model.Note, error) {
	note, err := store.GetNote(ctx, idOrName)
	if err == nil {
		return note, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return store.GetNoteByName(ctx, idOrName)
}
