package engine

import (
	"strconv"
	"strings"

	"github.com/alderwick/almanac/internal/model"
)

// ResolveComputedDate resolves a computed-date chain to at most one date
// for a calendar year. Year overrides short-circuit the chain. Any step
// that fails to resolve aborts the whole chain with nil.
func (e *Engine) ResolveComputedDate(cfg *model.ComputedConfig, year int) *model.Date {
	return e.resolveComputedDate(cfg, year, maxLinkDepth)
}

func (e *Engine) resolveComputedDate(cfg *model.ComputedConfig, year int, depth int) *model.Date {
	if cfg == nil || depth <= 0 {
		return nil
	}
	if override, ok := cfg.YearOverrides[year]; ok {
		d := model.NewDate(year, override.Month, override.Day)
		return &d
	}

	var current *model.Date
	for _, step := range cfg.Chain {
		switch step.Kind {
		case model.StepAnchor:
			current = e.resolveAnchor(step.Anchor, year, depth)
		case model.StepFirstAfter:
			current = e.resolveFirstAfter(current, step.Condition)
		case model.StepDaysAfter:
			if current != nil {
				d := e.cal.AddDays(*current, step.Days)
				current = &d
			}
		case model.StepWeekdayOnOrAfter:
			current = e.resolveWeekdayOnOrAfter(current, step.Weekday)
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}

// resolveAnchor establishes the chain's starting date: a named solstice or
// equinox, a season boundary (seasonStart:<i> / seasonEnd:<i>), or another
// event's resolved date for the year (event:<noteID>).
func (e *Engine) resolveAnchor(anchor string, year int, depth int) *model.Date {
	switch anchor {
	case "springEquinox":
		return e.anchorFromDayOfYear(model.FieldSpringEquinox, year)
	case "summerSolstice":
		return e.anchorFromDayOfYear(model.FieldSummerSolstice, year)
	case "autumnEquinox":
		return e.anchorFromDayOfYear(model.FieldAutumnEquinox, year)
	case "winterSolstice":
		return e.anchorFromDayOfYear(model.FieldWinterSolstice, year)
	}

	if rest, ok := strings.CutPrefix(anchor, "seasonStart:"); ok {
		return e.seasonBoundary(rest, year, false)
	}
	if rest, ok := strings.CutPrefix(anchor, "seasonEnd:"); ok {
		return e.seasonBoundary(rest, year, true)
	}
	if id, ok := strings.CutPrefix(anchor, "event:"); ok {
		return e.resolveEventAnchor(id, year, depth)
	}
	return nil
}

func (e *Engine) anchorFromDayOfYear(field model.Field, year int) *model.Date {
	dayOfYear, ok := e.seasonalAnchorDay(field, year)
	if !ok {
		return nil
	}
	return e.dateFromDayOfYear(year, dayOfYear)
}

func (e *Engine) seasonBoundary(indexText string, year int, end bool) *model.Date {
	index, err := strconv.Atoi(indexText)
	if err != nil || e.cal == nil || index < 0 || index >= len(e.cal.Seasons) {
		return nil
	}
	s := e.cal.Seasons[index]
	if end {
		return e.dateFromDayOfYear(year, s.DayEnd)
	}
	return e.dateFromDayOfYear(year, s.DayStart)
}

func (e *Engine) dateFromDayOfYear(year, dayOfYear int) *model.Date {
	if dayOfYear < 1 || dayOfYear > e.cal.DaysInYear(year) {
		return nil
	}
	d := e.cal.AddDays(model.NewDate(year, 0, 1), dayOfYear-1)
	return &d
}

// resolveEventAnchor resolves another note's date for the year: computed
// notes resolve their own chain, everything else contributes its first
// occurrence within the year.
func (e *Engine) resolveEventAnchor(noteID string, year int, depth int) *model.Date {
	if e.notes == nil || depth <= 0 {
		return nil
	}
	spec, ok := e.notes.ResolveNoteSpec(noteID)
	if !ok || spec == nil {
		return nil
	}
	if spec.Kind() == model.RepeatComputed {
		return e.resolveComputedDate(spec.ComputedConfig, year, depth-1)
	}
	yearStart := model.NewDate(year, 0, 1)
	yearEnd := e.cal.AddDays(model.NewDate(year+1, 0, 1), -1)
	occurrences := e.occurrencesInRange(spec, yearStart, yearEnd, 1, depth-1)
	if len(occurrences) == 0 {
		return nil
	}
	return &occurrences[0]
}

// resolveFirstAfter searches forward, starting the day after the running
// date, for the first day satisfying the step condition. The search is
// bounded; an exhausted search aborts the chain.
func (e *Engine) resolveFirstAfter(current *model.Date, cond *model.StepCondition) *model.Date {
	if current == nil || cond == nil {
		return nil
	}
	day := *current
	for i := 0; i < computedSearchLimit; i++ {
		day = e.cal.AddDays(day, 1)
		switch cond.Kind {
		case model.StepCondMoonPhase:
			phase, _, ok := e.cal.MoonPhaseAt(cond.MoonIndex, e.cal.AbsoluteDay(day))
			if ok && phase == cond.PhaseIndex {
				return &day
			}
		case model.StepCondWeekday:
			if e.cal.DayOfWeek(day) == cond.Weekday {
				return &day
			}
		default:
			return nil
		}
	}
	return nil
}

// resolveWeekdayOnOrAfter advances at most one week, inclusive of the
// running date, to the next matching weekday.
func (e *Engine) resolveWeekdayOnOrAfter(current *model.Date, weekday int) *model.Date {
	if current == nil {
		return nil
	}
	day := *current
	for i := 0; i < e.cal.WeekLength(); i++ {
		if e.cal.DayOfWeek(day) == weekday {
			return &day
		}
		day = e.cal.AddDays(day, 1)
	}
	return nil
}
