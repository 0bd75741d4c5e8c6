package engine

import "github.com/alderwick/almanac/internal/model"

// OccurrencesInRange lists the dates on which the event starts, ascending,
// within [rangeStart, rangeEnd]. maxCount caps the result length; a
// non-positive maxCount means unbounded. Periodic kinds step by their
// natural unit; kinds with no closed form scan day by day under the
// engine's iteration ceilings, so results can be truncated for pathological
// calendars.
func (e *Engine) OccurrencesInRange(spec *model.RecurrenceSpec, rangeStart, rangeEnd model.Date, maxCount int) []model.Date {
	return e.occurrencesInRange(spec, rangeStart, rangeEnd, maxCount, maxLinkDepth)
}

func (e *Engine) occurrencesInRange(spec *model.RecurrenceSpec, rangeStart, rangeEnd model.Date, maxCount, depth int) []model.Date {
	if spec == nil || depth <= 0 || rangeEnd.Before(rangeStart) {
		return nil
	}

	lo := rangeStart
	if lo.Before(spec.StartDate) {
		lo = spec.StartDate
	}
	hi := rangeEnd
	if spec.RepeatEndDate != nil && spec.RepeatEndDate.Before(hi) {
		hi = *spec.RepeatEndDate
	}
	if hi.Before(lo) {
		return nil
	}

	switch spec.Kind() {
	case model.RepeatNever:
		if !spec.StartDate.Before(lo) && !spec.StartDate.After(hi) && e.passesFilters(spec, spec.StartDate) {
			return []model.Date{spec.StartDate}
		}
		return nil
	case model.RepeatDaily:
		return e.enumerateByDays(spec, lo, hi, maxCount, spec.Interval())
	case model.RepeatWeekly:
		return e.enumerateByDays(spec, lo, hi, maxCount, spec.Interval()*e.cal.WeekLength())
	case model.RepeatMonthly:
		return e.enumerateMonthly(spec, lo, hi, maxCount)
	case model.RepeatYearly:
		return e.enumerateYearly(spec, lo, hi, maxCount)
	case model.RepeatWeekOfMonth:
		return e.enumerateWeekOfMonth(spec, lo, hi, maxCount)
	case model.RepeatComputed:
		return e.enumerateComputed(spec, lo, hi, maxCount, depth)
	default:
		return e.enumerateByScan(spec, lo, hi, maxCount)
	}
}

// CachedOccurrencesInRange filters a precomputed occurrence list (owned by
// the note store, typically for random specs) down to a range, in place of
// a day scan. The engine works identically with or without such a cache.
func (e *Engine) CachedOccurrencesInRange(cached []model.Date, rangeStart, rangeEnd model.Date, maxCount int) []model.Date {
	var out []model.Date
	for _, d := range cached {
		if d.Before(rangeStart) || d.After(rangeEnd) {
			continue
		}
		out = append(out, d)
		if maxCount > 0 && len(out) >= maxCount {
			break
		}
	}
	return out
}

// enumerateByDays steps by a fixed day stride from the start date. Serves
// daily and weekly kinds; the stride keeps weekly candidates on the start's
// weekday by construction.
func (e *Engine) enumerateByDays(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount, stride int) []model.Date {
	if stride <= 0 {
		return nil
	}
	offset := e.cal.DaysBetween(spec.StartDate, lo)
	k := int64(0)
	if offset > 0 {
		k = ceilDiv64(offset, int64(stride))
	}

	var out []model.Date
	for iter := 0; iter < globalIterationLimit; iter++ {
		candidate := e.cal.AddDays(spec.StartDate, int(k)*stride)
		if candidate.After(hi) {
			break
		}
		if !e.occurrenceAllowed(spec, k+1) {
			break
		}
		if e.passesFilters(spec, candidate) {
			out = append(out, candidate)
			if maxCount > 0 && len(out) >= maxCount {
				break
			}
		}
		k++
	}
	return out
}

func (e *Engine) enumerateMonthly(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount int) []model.Date {
	interval := spec.Interval()
	k := monthsToFirstCandidate(e.cal.MonthsBetween(spec.StartDate, lo), interval)

	var out []model.Date
	for iter := 0; iter < globalIterationLimit; iter++ {
		candidate := e.cal.ClampDay(e.cal.AddMonths(spec.StartDate, k*interval))
		if candidate.Before(lo) {
			k++
			continue
		}
		if candidate.After(hi) {
			break
		}
		if !e.occurrenceAllowed(spec, int64(k)+1) {
			break
		}
		if e.passesFilters(spec, candidate) {
			out = append(out, candidate)
			if maxCount > 0 && len(out) >= maxCount {
				break
			}
		}
		k++
	}
	return out
}

func (e *Engine) enumerateYearly(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount int) []model.Date {
	interval := spec.Interval()
	k := 0
	if diff := lo.Year - spec.StartDate.Year; diff > 0 {
		k = diff / interval
	}

	var out []model.Date
	for iter := 0; iter < globalIterationLimit; iter++ {
		candidate := e.cal.ClampDay(e.cal.AddYears(spec.StartDate, k*interval))
		if candidate.Before(lo) {
			k++
			continue
		}
		if candidate.After(hi) {
			break
		}
		if !e.occurrenceAllowed(spec, int64(k)+1) {
			break
		}
		if e.passesFilters(spec, candidate) {
			out = append(out, candidate)
			if maxCount > 0 && len(out) >= maxCount {
				break
			}
		}
		k++
	}
	return out
}

// enumerateWeekOfMonth steps month by month, computing the ordinal weekday
// directly instead of scanning days. Months lacking the ordinal (no fifth
// Zephyrday) contribute nothing but still consume their interval slot.
func (e *Engine) enumerateWeekOfMonth(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount int) []model.Date {
	interval := spec.Interval()
	weekday := e.cal.DayOfWeek(spec.StartDate)
	if spec.Weekday != nil {
		weekday = *spec.Weekday
	}
	weekNumber := (spec.StartDate.Day-1)/e.cal.WeekLength() + 1
	if spec.WeekNumber != nil {
		weekNumber = *spec.WeekNumber
	}

	startMonth := model.NewDate(spec.StartDate.Year, spec.StartDate.Month, 1)
	k := monthsToFirstCandidate(e.cal.MonthsBetween(spec.StartDate, lo), interval)

	var out []model.Date
	for iter := 0; iter < globalIterationLimit; iter++ {
		monthCursor := e.cal.AddMonths(startMonth, k*interval)
		if monthCursor.After(hi) {
			break
		}
		if !e.occurrenceAllowed(spec, int64(k)+1) {
			break
		}
		day, ok := e.ordinalWeekdayDay(monthCursor.Year, monthCursor.Month, weekday, weekNumber)
		if !ok {
			k++
			continue
		}
		candidate := model.NewDate(monthCursor.Year, monthCursor.Month, day)
		if candidate.Before(lo) || candidate.Before(spec.StartDate) {
			k++
			continue
		}
		if candidate.After(hi) {
			break
		}
		if e.passesFilters(spec, candidate) {
			out = append(out, candidate)
			if maxCount > 0 && len(out) >= maxCount {
				break
			}
		}
		k++
	}
	return out
}

// ordinalWeekdayDay finds the day of month carrying the nth (or nth-from-
// last, for negative n) occurrence of a weekday.
func (e *Engine) ordinalWeekdayDay(year, month, weekday, n int) (int, bool) {
	week := e.cal.WeekLength()
	monthLen := e.cal.DaysInMonth(month, year)
	if monthLen <= 0 || n == 0 {
		return 0, false
	}
	if n > 0 {
		firstWeekday := e.cal.DayOfWeek(model.NewDate(year, month, 1))
		day := 1 + posModInt(weekday-firstWeekday, week) + (n-1)*week
		return day, day <= monthLen
	}
	lastWeekday := e.cal.DayOfWeek(model.NewDate(year, month, monthLen))
	day := monthLen - posModInt(lastWeekday-weekday, week) - (-n-1)*week
	return day, day >= 1
}

func (e *Engine) enumerateComputed(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount, depth int) []model.Date {
	var out []model.Date
	index := 0
	for year := spec.StartDate.Year; year <= hi.Year; year++ {
		if year-spec.StartDate.Year > globalIterationLimit {
			break
		}
		resolved := e.resolveComputedDate(spec.ComputedConfig, year, depth)
		if resolved == nil || resolved.Before(spec.StartDate) {
			continue
		}
		index++
		if spec.MaxOccurrences > 0 && index > spec.MaxOccurrences {
			break
		}
		if resolved.Before(lo) || resolved.After(hi) {
			continue
		}
		if !e.passesFilters(spec, *resolved) {
			continue
		}
		out = append(out, *resolved)
		if maxCount > 0 && len(out) >= maxCount {
			break
		}
	}
	return out
}

// enumerateByScan walks day by day for kinds with no closed form. When a
// max-occurrence ceiling is set the scan starts at the spec's start date so
// occurrence indices are exact; otherwise it starts at the range.
func (e *Engine) enumerateByScan(spec *model.RecurrenceSpec, lo, hi model.Date, maxCount int) []model.Date {
	day := lo
	if spec.MaxOccurrences > 0 {
		day = spec.StartDate
	}

	var out []model.Date
	count := 0
	for iter := 0; iter < dayScanLimit; iter++ {
		if day.After(hi) {
			break
		}
		if e.kindMatchesAt(spec, day) {
			count++
			if spec.MaxOccurrences > 0 && count > spec.MaxOccurrences {
				break
			}
			if !day.Before(lo) && e.passesFilters(spec, day) {
				out = append(out, day)
				if maxCount > 0 && len(out) >= maxCount {
					break
				}
			}
		}
		day = e.cal.AddDays(day, 1)
	}
	return out
}

func monthsToFirstCandidate(monthsToRange, interval int) int {
	if monthsToRange <= 0 {
		return 0
	}
	return (monthsToRange + interval - 1) / interval
}

func ceilDiv64(a, b int64) int64 {
	return (a + b - 1) / b
}

func posModInt(v, m int) int {
	return ((v % m) + m) % m
}
