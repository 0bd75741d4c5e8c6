package engine

import (
	"math"

	"github.com/alderwick/almanac/internal/calendar"
	"github.com/alderwick/almanac/internal/model"
)

// matchesPattern runs the primary decision procedure for the spec's repeat
// kind, including the max-occurrence ceiling. It does not apply the
// duration extension or the extra condition filters; isOccurring layers
// those on top.
func (e *Engine) matchesPattern(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	if !e.withinBounds(spec, date) {
		return false
	}

	switch spec.Kind() {
	case model.RepeatNever:
		return date.SameDay(spec.StartDate)
	case model.RepeatDaily:
		return e.matchesDaily(spec, date)
	case model.RepeatWeekly:
		return e.matchesWeekly(spec, date)
	case model.RepeatMonthly:
		return e.matchesMonthly(spec, date)
	case model.RepeatYearly:
		return e.matchesYearly(spec, date)
	case model.RepeatWeekOfMonth:
		return e.matchesWeekOfMonth(spec, date)
	case model.RepeatSeasonal:
		return e.matchesSeasonal(spec, date)
	case model.RepeatRange:
		return e.matchesRange(spec, date)
	case model.RepeatMoon:
		return e.matchesMoon(spec, date)
	case model.RepeatRandom:
		return e.matchesRandomSpec(spec, date)
	case model.RepeatComputed:
		return e.matchesComputed(spec, date, depth)
	case model.RepeatLinked:
		return e.matchesLinked(spec, date, depth)
	}
	return false
}

func (e *Engine) matchesDaily(spec *model.RecurrenceSpec, date model.Date) bool {
	days := e.cal.DaysBetween(spec.StartDate, date)
	if days < 0 || days%int64(spec.Interval()) != 0 {
		return false
	}
	return e.occurrenceAllowed(spec, days/int64(spec.Interval())+1)
}

func (e *Engine) matchesWeekly(spec *model.RecurrenceSpec, date model.Date) bool {
	if e.cal.DayOfWeek(date) != e.cal.DayOfWeek(spec.StartDate) {
		return false
	}
	days := e.cal.DaysBetween(spec.StartDate, date)
	if days < 0 {
		return false
	}
	weeks := floorDiv64(days, int64(e.cal.WeekLength()))
	if weeks%int64(spec.Interval()) != 0 {
		return false
	}
	return e.occurrenceAllowed(spec, weeks/int64(spec.Interval())+1)
}

func (e *Engine) matchesMonthly(spec *model.RecurrenceSpec, date model.Date) bool {
	months := e.cal.MonthsBetween(spec.StartDate, date)
	if months < 0 || months%spec.Interval() != 0 {
		return false
	}
	if date.Day != e.targetDayInMonth(spec.StartDate.Day, date) {
		return false
	}
	return e.occurrenceAllowed(spec, int64(months/spec.Interval())+1)
}

func (e *Engine) matchesYearly(spec *model.RecurrenceSpec, date model.Date) bool {
	years := date.Year - spec.StartDate.Year
	if years < 0 || years%spec.Interval() != 0 {
		return false
	}
	if date.Month != spec.StartDate.Month {
		return false
	}
	if date.Day != e.targetDayInMonth(spec.StartDate.Day, date) {
		return false
	}
	return e.occurrenceAllowed(spec, int64(years/spec.Interval())+1)
}

// targetDayInMonth clamps the start day to the target month's length, so a
// day-31 start falls on day 28 of a 28-day month rather than skipping or
// rolling over.
func (e *Engine) targetDayInMonth(startDay int, date model.Date) int {
	monthLen := e.cal.DaysInMonth(date.Month, date.Year)
	if monthLen > 0 && startDay > monthLen {
		return monthLen
	}
	return startDay
}

func (e *Engine) matchesWeekOfMonth(spec *model.RecurrenceSpec, date model.Date) bool {
	weekday := e.cal.DayOfWeek(spec.StartDate)
	if spec.Weekday != nil {
		weekday = *spec.Weekday
	}
	if e.cal.DayOfWeek(date) != weekday {
		return false
	}

	week := e.cal.WeekLength()
	weekNumber := (spec.StartDate.Day-1)/week + 1
	if spec.WeekNumber != nil {
		weekNumber = *spec.WeekNumber
	}
	if weekNumber > 0 {
		if (date.Day-1)/week+1 != weekNumber {
			return false
		}
	} else {
		monthLen := e.cal.DaysInMonth(date.Month, date.Year)
		if monthLen <= 0 {
			return false
		}
		if (monthLen-date.Day)/week+1 != -weekNumber {
			return false
		}
	}

	months := e.cal.MonthsBetween(spec.StartDate, date)
	if months < 0 || months%spec.Interval() != 0 {
		return false
	}
	return e.occurrenceAllowed(spec, int64(months/spec.Interval())+1)
}

func (e *Engine) matchesSeasonal(spec *model.RecurrenceSpec, date model.Date) bool {
	cfg := spec.SeasonalConfig
	if cfg == nil {
		return false
	}
	index, dayIn, length, ok := e.cal.SeasonPosition(e.cal.DayOfYear(date), date.Year)
	if !ok || index != cfg.SeasonIndex {
		return false
	}
	switch cfg.Trigger {
	case model.TriggerFirstDay:
		if dayIn != 1 {
			return false
		}
	case model.TriggerLastDay:
		if dayIn != length {
			return false
		}
	}
	return e.scannedOccurrenceAllowed(spec, date)
}

func (e *Engine) matchesRange(spec *model.RecurrenceSpec, date model.Date) bool {
	p := spec.RangePattern
	if p == nil {
		return false
	}
	if !p.Year.Matches(date.Year) || !p.Month.Matches(date.Month) || !p.Day.Matches(date.Day) {
		return false
	}
	return e.scannedOccurrenceAllowed(spec, date)
}

func (e *Engine) matchesMoon(spec *model.RecurrenceSpec, date model.Date) bool {
	if !e.anyMoonConditionMatches(spec.MoonConditions, date) {
		return false
	}
	return e.scannedOccurrenceAllowed(spec, date)
}

// anyMoonConditionMatches reports whether the date's resolved phase matches
// at least one condition's phase window, within tolerance, honoring the
// rising/exact/fading third-of-phase modifiers.
func (e *Engine) anyMoonConditionMatches(conds []model.MoonCondition, date model.Date) bool {
	if e.cal == nil {
		return false
	}
	abs := e.cal.AbsoluteDay(date)
	for _, mc := range conds {
		phaseIndex, fraction, ok := e.cal.MoonPhaseAt(mc.MoonIndex, abs)
		if !ok {
			continue
		}
		phase := e.cal.Moons[mc.MoonIndex].Phases[phaseIndex]
		if math.Abs(phase.Start-mc.PhaseStart) > moonPhaseTolerance ||
			math.Abs(phase.End-mc.PhaseEnd) > moonPhaseTolerance {
			continue
		}
		if !moonModifierMatches(mc.Modifier, phase, fraction) {
			continue
		}
		return true
	}
	return false
}

// moonModifierMatches narrows a phase match to a third of the phase's span:
// rising is the first third, exact the middle, fading the last.
func moonModifierMatches(mod model.MoonModifier, phase calendar.MoonPhase, fraction float64) bool {
	if mod == model.MoonModifierNone {
		return true
	}
	span := phase.End - phase.Start
	if span <= 0 {
		return false
	}
	rel := (fraction - phase.Start) / span
	switch mod {
	case model.MoonModifierRising:
		return rel < 1.0/3.0
	case model.MoonModifierExact:
		return rel >= 1.0/3.0 && rel < 2.0/3.0
	case model.MoonModifierFading:
		return rel >= 2.0/3.0
	}
	return false
}

func (e *Engine) matchesRandomSpec(spec *model.RecurrenceSpec, date model.Date) bool {
	cfg := spec.RandomConfig
	if cfg == nil {
		return false
	}
	switch cfg.CheckInterval {
	case model.CheckWeekly:
		if e.cal.DayOfWeek(date) != e.cal.DayOfWeek(spec.StartDate) {
			return false
		}
	case model.CheckMonthly:
		if date.Day != spec.StartDate.Day {
			return false
		}
	}
	if !e.MatchesRandom(cfg, date) {
		return false
	}
	return e.scannedOccurrenceAllowed(spec, date)
}

func (e *Engine) matchesComputed(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	resolved := e.resolveComputedDate(spec.ComputedConfig, date.Year, depth)
	if resolved == nil || !resolved.SameDay(date) {
		return false
	}
	return e.computedOccurrenceAllowed(spec, date, depth)
}

// matchesLinked delegates to the referenced note's own spec, shifted by the
// link offset. The referenced spec is evaluated in full (bounds, span
// coverage, filters); a referenced spec that is itself linked does not
// chain further, so link cycles terminate.
func (e *Engine) matchesLinked(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	link := spec.LinkedEvent
	if link == nil || e.notes == nil || depth <= 0 {
		return false
	}
	target, ok := e.notes.ResolveNoteSpec(link.NoteID)
	if !ok || target == nil || target.Kind() == model.RepeatLinked {
		return false
	}
	shifted := e.cal.AddDays(date, -link.Offset)
	if !e.isOccurring(target, shifted, depth-1) {
		return false
	}
	return e.scannedOccurrenceAllowed(spec, date)
}

// occurrenceAllowed enforces the max-occurrence ceiling given a closed-form
// 1-based occurrence index.
func (e *Engine) occurrenceAllowed(spec *model.RecurrenceSpec, index int64) bool {
	return spec.MaxOccurrences <= 0 || index <= int64(spec.MaxOccurrences)
}

// scannedOccurrenceAllowed enforces the ceiling for kinds with no closed
// form by counting primary matches day by day from the start date. The scan
// is bounded; a spec whose ceiling lies beyond the scan limit stops
// matching past it.
func (e *Engine) scannedOccurrenceAllowed(spec *model.RecurrenceSpec, date model.Date) bool {
	if spec.MaxOccurrences <= 0 {
		return true
	}
	count := 0
	day := spec.StartDate
	for i := 0; i < dayScanLimit; i++ {
		if day.After(date) {
			break
		}
		if e.kindMatchesAt(spec, day) {
			count++
			if count > spec.MaxOccurrences {
				return false
			}
		}
		if day.SameDay(date) {
			break
		}
		day = e.cal.AddDays(day, 1)
	}
	return count <= spec.MaxOccurrences
}

// computedOccurrenceAllowed counts one candidate per year from the start
// year.
func (e *Engine) computedOccurrenceAllowed(spec *model.RecurrenceSpec, date model.Date, depth int) bool {
	if spec.MaxOccurrences <= 0 {
		return true
	}
	count := 0
	for year := spec.StartDate.Year; year <= date.Year; year++ {
		resolved := e.resolveComputedDate(spec.ComputedConfig, year, depth)
		if resolved == nil || resolved.Before(spec.StartDate) {
			continue
		}
		if resolved.After(date) {
			break
		}
		count++
		if count > spec.MaxOccurrences {
			return false
		}
	}
	return true
}

// kindMatchesAt re-tests only the kind's day predicate, without occurrence
// ceilings, used while counting occurrence indices.
func (e *Engine) kindMatchesAt(spec *model.RecurrenceSpec, date model.Date) bool {
	switch spec.Kind() {
	case model.RepeatSeasonal:
		cfg := spec.SeasonalConfig
		if cfg == nil {
			return false
		}
		index, dayIn, length, ok := e.cal.SeasonPosition(e.cal.DayOfYear(date), date.Year)
		if !ok || index != cfg.SeasonIndex {
			return false
		}
		switch cfg.Trigger {
		case model.TriggerFirstDay:
			return dayIn == 1
		case model.TriggerLastDay:
			return dayIn == length
		}
		return true
	case model.RepeatRange:
		p := spec.RangePattern
		return p != nil && p.Year.Matches(date.Year) && p.Month.Matches(date.Month) && p.Day.Matches(date.Day)
	case model.RepeatMoon:
		return e.anyMoonConditionMatches(spec.MoonConditions, date)
	case model.RepeatRandom:
		cfg := spec.RandomConfig
		if cfg == nil {
			return false
		}
		switch cfg.CheckInterval {
		case model.CheckWeekly:
			if e.cal.DayOfWeek(date) != e.cal.DayOfWeek(spec.StartDate) {
				return false
			}
		case model.CheckMonthly:
			if date.Day != spec.StartDate.Day {
				return false
			}
		}
		return e.MatchesRandom(cfg, date)
	case model.RepeatLinked:
		link := spec.LinkedEvent
		if link == nil || e.notes == nil {
			return false
		}
		target, ok := e.notes.ResolveNoteSpec(link.NoteID)
		if !ok || target == nil || target.Kind() == model.RepeatLinked {
			return false
		}
		return e.isOccurring(target, e.cal.AddDays(date, -link.Offset), maxLinkDepth-1)
	}
	return false
}
