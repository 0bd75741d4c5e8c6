// Package engine decides whether recurring events occur on dates of a
// configurable in-world calendar, and enumerates their occurrences. The
// engine is pure and synchronous: it owns no state beyond its injected
// calendar and note resolver. The evaluation path returns no errors;
// anything unresolvable degrades to a non-match.
package engine

import (
	"github.com/alderwick/almanac/internal/calendar"
	"github.com/alderwick/almanac/internal/model"
)

// NoteResolver looks up the recurrence spec behind a note ID, used by
// linked events and computed event anchors. A missing note is a non-match,
// not an error.
type NoteResolver interface {
	ResolveNoteSpec(id string) (*model.RecurrenceSpec, bool)
}

// Engine evaluates recurrence specs against a calendar. Construct one per
// calendar; swapping calendars means constructing a new engine, so no stale
// derived state can survive a calendar switch.
type Engine struct {
	cal   *calendar.Calendar
	notes NoteResolver
}

// New creates an engine for the given calendar. The note resolver may be
// nil, in which case linked events and event anchors never match.
func New(cal *calendar.Calendar, notes NoteResolver) *Engine {
	return &Engine{cal: cal, notes: notes}
}

// Calendar returns the calendar the engine evaluates against.
func (e *Engine) Calendar() *calendar.Calendar { return e.cal }

// IsOccurring reports whether the event described by spec occurs on date.
// A date inside a multi-day occurrence span counts as occurring.
func (e *Engine) IsOccurring(spec *model.RecurrenceSpec, date model.Date) bool {
	return e.isOccurring(spec, date, maxLinkDepth)
}

func (e *Engine) isOccurring(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	if spec == nil || depth <= 0 {
		return false
	}
	if !e.withinBounds(spec, date) {
		return false
	}
	if !e.matchesPattern(spec, date, depth) && !e.coveredBySpan(spec, date, depth) {
		return false
	}
	return e.passesFilters(spec, date)
}

// withinBounds checks the hard start/end limits shared by every kind.
func (e *Engine) withinBounds(spec *model.RecurrenceSpec, date model.Date) bool {
	if date.Before(spec.StartDate) {
		return false
	}
	if spec.RepeatEndDate != nil && date.After(*spec.RepeatEndDate) {
		return false
	}
	return true
}

// coveredBySpan applies the multi-day duration extension: when the spec has
// an explicit end date past its start, a date is covered if an occurrence
// started within the previous duration days. Moon, random, range and
// computed events are point events and do not extend.
func (e *Engine) coveredBySpan(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	switch spec.Kind() {
	case model.RepeatNever, model.RepeatMoon, model.RepeatRandom,
		model.RepeatRange, model.RepeatComputed:
		return false
	}
	if spec.EndDate == nil {
		return false
	}
	duration := int(e.cal.DaysBetween(spec.StartDate, *spec.EndDate))
	if duration <= 0 {
		return false
	}
	if duration > dayScanLimit {
		duration = dayScanLimit
	}
	for i := 1; i <= duration; i++ {
		candidate := e.cal.AddDays(date, -i)
		if candidate.Before(spec.StartDate) {
			return false
		}
		if e.matchesPattern(spec, candidate, depth) {
			return true
		}
	}
	return false
}

// passesFilters applies the AND-combined extra conditions and, for specs of
// a non-moon kind that carry moon conditions, the any-of moon filter.
func (e *Engine) passesFilters(spec *model.RecurrenceSpec, date model.Date) bool {
	if spec.Kind() != model.RepeatMoon && len(spec.MoonConditions) > 0 {
		if !e.anyMoonConditionMatches(spec.MoonConditions, date) {
			return false
		}
	}
	return e.allConditionsPass(spec.Conditions, date, spec.StartDate)
}
