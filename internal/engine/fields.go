package engine

import (
	"math"

	"github.com/alderwick/almanac/internal/model"
)

// ResolveField maps a named field and a date to a numeric value. Boolean
// fields resolve to 0 or 1. value2 supplies the secondary index some fields
// need (the moon index for moon fields, the cycle index for cycle fields);
// when nil it defaults to 0. An unknown field, an out-of-range secondary
// index, or a topology the calendar does not define resolves to not-ok and
// is treated as a non-match by callers.
func (e *Engine) ResolveField(field model.Field, date model.Date, value2 *int) (float64, bool) {
	secondary := 0
	if value2 != nil {
		secondary = *value2
	}

	switch field {
	case model.FieldYear:
		return float64(date.Year), true
	case model.FieldMonth:
		return float64(date.Month), true
	case model.FieldDay:
		return float64(date.Day), true
	case model.FieldHour:
		return float64(date.Hour), true
	case model.FieldMinute:
		return float64(date.Minute), true
	case model.FieldWeekday:
		return float64(e.cal.DayOfWeek(date)), true
	case model.FieldDayOfYear:
		return float64(e.cal.DayOfYear(date)), true
	case model.FieldDaysInMonth:
		monthLen := e.cal.DaysInMonth(date.Month, date.Year)
		if monthLen <= 0 {
			return 0, false
		}
		return float64(monthLen), true
	case model.FieldDaysInYear:
		return float64(e.cal.DaysInYear(date.Year)), true

	case model.FieldWeekNumberInMonth:
		week := e.cal.WeekLength()
		return float64((date.Day + week - 1) / week), true
	case model.FieldInverseWeekNumber:
		monthLen := e.cal.DaysInMonth(date.Month, date.Year)
		if monthLen <= 0 {
			return 0, false
		}
		return float64((monthLen-date.Day)/e.cal.WeekLength() + 1), true
	case model.FieldTotalWeek:
		week := int64(e.cal.WeekLength())
		abs := e.cal.AbsoluteDay(date)
		return float64(floorDiv64(abs, week)), true
	case model.FieldWeekOfYear:
		week := e.cal.WeekLength()
		return float64((e.cal.DayOfYear(date) + week - 1) / week), true

	case model.FieldSeason:
		index, _, _, ok := e.cal.SeasonPosition(e.cal.DayOfYear(date), date.Year)
		if !ok {
			return 0, false
		}
		return float64(index), true
	case model.FieldSeasonPercent:
		_, dayIn, length, ok := e.cal.SeasonPosition(e.cal.DayOfYear(date), date.Year)
		if !ok || length <= 0 {
			return 0, false
		}
		return math.Round(float64(dayIn) / float64(length) * 100), true
	case model.FieldSeasonDay:
		_, dayIn, _, ok := e.cal.SeasonPosition(e.cal.DayOfYear(date), date.Year)
		if !ok {
			return 0, false
		}
		return float64(dayIn), true

	case model.FieldMoonPhase:
		phase, _, ok := e.cal.MoonPhaseAt(secondary, e.cal.AbsoluteDay(date))
		if !ok {
			return 0, false
		}
		return float64(phase), true
	case model.FieldMoonPhaseCountMo:
		return e.moonPhaseTransitions(secondary, model.NewDate(date.Year, date.Month, 1), date)
	case model.FieldMoonPhaseCountYr:
		return e.moonPhaseTransitions(secondary, model.NewDate(date.Year, 0, 1), date)

	case model.FieldEra:
		index, _, ok := e.cal.EraPosition(date.Year)
		if !ok {
			return 0, false
		}
		return float64(index), true
	case model.FieldEraYear:
		_, eraYear, ok := e.cal.EraPosition(date.Year)
		if !ok {
			return 0, false
		}
		return float64(eraYear), true
	case model.FieldCycle:
		value, ok := e.cal.CycleValue(secondary, date)
		if !ok {
			return 0, false
		}
		return float64(value), true

	case model.FieldIntercalary:
		return boolValue(e.cal.IsIntercalary(date.Month)), true
	case model.FieldLeapYear:
		return boolValue(e.cal.IsLeapYear(date.Year)), true

	case model.FieldSpringEquinox, model.FieldSummerSolstice,
		model.FieldAutumnEquinox, model.FieldWinterSolstice:
		anchor, ok := e.seasonalAnchorDay(field, date.Year)
		if !ok {
			return 0, false
		}
		return boolValue(e.cal.DayOfYear(date) == anchor), true
	}

	return 0, false
}

// moonPhaseTransitions counts phase entries between the first day of a
// period and the target date inclusive: a day counts when its phase differs
// from the preceding day's.
func (e *Engine) moonPhaseTransitions(moonIndex int, periodStart, date model.Date) (float64, bool) {
	first := e.cal.AbsoluteDay(periodStart)
	last := e.cal.AbsoluteDay(date)
	if last < first || last-first > dayScanLimit {
		return 0, false
	}
	prev, _, ok := e.cal.MoonPhaseAt(moonIndex, first-1)
	if !ok {
		return 0, false
	}
	count := 0
	for day := first; day <= last; day++ {
		phase, _, ok := e.cal.MoonPhaseAt(moonIndex, day)
		if !ok {
			return 0, false
		}
		if phase != prev {
			count++
		}
		prev = phase
	}
	return float64(count), true
}

// seasonalAnchorDay resolves a solstice or equinox field to its day of
// year: equinoxes are the start day of the matched season, solstices its
// midpoint. Seasons are matched by name fragment first, then by position
// for a standard four-season calendar.
func (e *Engine) seasonalAnchorDay(field model.Field, year int) (int, bool) {
	index, ok := e.seasonIndexFor(field)
	if !ok {
		return 0, false
	}
	switch field {
	case model.FieldSummerSolstice, model.FieldWinterSolstice:
		return e.cal.SeasonMidpoint(index, year)
	default:
		if index < 0 || index >= len(e.cal.Seasons) {
			return 0, false
		}
		return e.cal.Seasons[index].DayStart, true
	}
}

func (e *Engine) seasonIndexFor(field model.Field) (int, bool) {
	if e.cal == nil {
		return 0, false
	}
	var fragments []string
	var position int
	switch field {
	case model.FieldSpringEquinox:
		fragments, position = []string{"spring"}, 0
	case model.FieldSummerSolstice:
		fragments, position = []string{"summer"}, 1
	case model.FieldAutumnEquinox:
		fragments, position = []string{"autumn", "fall"}, 2
	case model.FieldWinterSolstice:
		fragments, position = []string{"winter"}, 3
	default:
		return 0, false
	}
	if index, ok := e.cal.SeasonIndexByName(fragments...); ok {
		return index, true
	}
	if len(e.cal.Seasons) == 4 {
		return position, true
	}
	return 0, false
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
