package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/alderwick/almanac/internal/model"
)

// Describe renders a recurrence spec as a one-line human-readable summary,
// using the calendar's month, weekday, season and moon names where it can.
func (e *Engine) Describe(spec *model.RecurrenceSpec) string {
	if spec == nil {
		return "never"
	}

	var b strings.Builder
	b.WriteString(e.describeKind(spec))

	if spec.RepeatEndDate != nil {
		fmt.Fprintf(&b, ", until %s", spec.RepeatEndDate)
	}
	if spec.MaxOccurrences > 0 {
		fmt.Fprintf(&b, ", up to %d %s", spec.MaxOccurrences, plural(spec.MaxOccurrences, "time", "times"))
	}
	if spec.EndDate != nil {
		if days := e.cal.DaysBetween(spec.StartDate, *spec.EndDate); days > 0 {
			fmt.Fprintf(&b, ", lasting %d days", days+1)
		}
	}
	if n := len(spec.Conditions); n > 0 {
		fmt.Fprintf(&b, " (with %d extra %s)", n, plural(n, "condition", "conditions"))
	}
	return b.String()
}

func (e *Engine) describeKind(spec *model.RecurrenceSpec) string {
	interval := spec.Interval()

	switch spec.Kind() {
	case model.RepeatNever:
		return fmt.Sprintf("once, on %s", spec.StartDate)
	case model.RepeatDaily:
		if interval == 1 {
			return "every day"
		}
		return fmt.Sprintf("every %d days", interval)
	case model.RepeatWeekly:
		weekday := e.cal.WeekdayName(e.cal.DayOfWeek(spec.StartDate))
		if interval == 1 {
			return fmt.Sprintf("every %s", weekday)
		}
		return fmt.Sprintf("every %d weeks on %s", interval, weekday)
	case model.RepeatMonthly:
		if interval == 1 {
			return fmt.Sprintf("monthly on day %d", spec.StartDate.Day)
		}
		return fmt.Sprintf("every %d months on day %d", interval, spec.StartDate.Day)
	case model.RepeatYearly:
		when := fmt.Sprintf("%s %d", e.cal.MonthName(spec.StartDate.Month), spec.StartDate.Day)
		if interval == 1 {
			return "yearly on " + when
		}
		return fmt.Sprintf("every %d years on %s", interval, when)
	case model.RepeatWeekOfMonth:
		return e.describeWeekOfMonth(spec, interval)
	case model.RepeatSeasonal:
		return e.describeSeasonal(spec)
	case model.RepeatRange:
		return "on dates matching a year/month/day pattern"
	case model.RepeatMoon:
		return e.describeMoon(spec)
	case model.RepeatRandom:
		if cfg := spec.RandomConfig; cfg != nil {
			cadence := cfg.CheckInterval
			if cadence == "" {
				cadence = model.CheckDaily
			}
			return fmt.Sprintf("randomly (%.0f%% %s chance)", cfg.Probability, cadence)
		}
		return "randomly"
	case model.RepeatComputed:
		return "on a computed date each year"
	case model.RepeatLinked:
		if link := spec.LinkedEvent; link != nil {
			switch {
			case link.Offset > 0:
				return fmt.Sprintf("%d %s after event %s", link.Offset, plural(link.Offset, "day", "days"), link.NoteID)
			case link.Offset < 0:
				return fmt.Sprintf("%d %s before event %s", -link.Offset, plural(-link.Offset, "day", "days"), link.NoteID)
			default:
				return fmt.Sprintf("together with event %s", link.NoteID)
			}
		}
		return "linked to another event"
	}
	return "never"
}

func (e *Engine) describeWeekOfMonth(spec *model.RecurrenceSpec, interval int) string {
	weekday := e.cal.DayOfWeek(spec.StartDate)
	if spec.Weekday != nil {
		weekday = *spec.Weekday
	}
	weekNumber := (spec.StartDate.Day-1)/e.cal.WeekLength() + 1
	if spec.WeekNumber != nil {
		weekNumber = *spec.WeekNumber
	}

	var ordinalText string
	if weekNumber > 0 {
		ordinalText = ordinal(weekNumber)
	} else if weekNumber == -1 {
		ordinalText = "last"
	} else {
		ordinalText = ordinal(-weekNumber) + "-to-last"
	}

	period := "month"
	if interval > 1 {
		period = fmt.Sprintf("%d months", interval)
	}
	return fmt.Sprintf("the %s %s of every %s", ordinalText, e.cal.WeekdayName(weekday), period)
}

func (e *Engine) describeSeasonal(spec *model.RecurrenceSpec) string {
	cfg := spec.SeasonalConfig
	if cfg == nil {
		return "seasonally"
	}
	name := fmt.Sprintf("season %d", cfg.SeasonIndex)
	if e.cal != nil && cfg.SeasonIndex >= 0 && cfg.SeasonIndex < len(e.cal.Seasons) {
		name = e.cal.Seasons[cfg.SeasonIndex].Name
	}
	switch cfg.Trigger {
	case model.TriggerFirstDay:
		return fmt.Sprintf("on the first day of %s", name)
	case model.TriggerLastDay:
		return fmt.Sprintf("on the last day of %s", name)
	default:
		return fmt.Sprintf("every day of %s", name)
	}
}

func (e *Engine) describeMoon(spec *model.RecurrenceSpec) string {
	parts := make([]string, 0, len(spec.MoonConditions))
	for _, mc := range spec.MoonConditions {
		name := e.moonPhaseName(mc)
		if mc.Modifier != model.MoonModifierNone && mc.Modifier != model.MoonModifierExact {
			name = fmt.Sprintf("%s (%s)", name, mc.Modifier)
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "on moon phases"
	}
	return "when the moon is " + strings.Join(parts, " or ")
}

func (e *Engine) moonPhaseName(mc model.MoonCondition) string {
	if e.cal != nil && mc.MoonIndex >= 0 && mc.MoonIndex < len(e.cal.Moons) {
		for _, p := range e.cal.Moons[mc.MoonIndex].Phases {
			if math.Abs(p.Start-mc.PhaseStart) <= moonPhaseTolerance &&
				math.Abs(p.End-mc.PhaseEnd) <= moonPhaseTolerance {
				return p.Name
			}
		}
	}
	return fmt.Sprintf("in phase [%.2f,%.2f)", mc.PhaseStart, mc.PhaseEnd)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
