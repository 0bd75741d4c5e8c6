package calendar

import (
	"log/slog"
	"strconv"

	"github.com/alderwick/almanac/internal/model"
)

// maxYearSpan bounds year-walking conversions so a degenerate calendar (or
// a wildly malformed date) cannot spin forever. Conversions that exceed it
// degrade to the epoch with a diagnostic log rather than failing.
const maxYearSpan = 100_000

// AbsoluteDay converts a date to days since the calendar epoch: year zero,
// month 0, day 1 is absolute day 0.
func (c *Calendar) AbsoluteDay(d model.Date) int64 {
	if c == nil {
		return 0
	}
	span := d.Year - c.YearZero
	if span > maxYearSpan || span < -maxYearSpan {
		slog.Debug("absolute day conversion out of range, degrading to epoch",
			"year", d.Year, "year_zero", c.YearZero)
		return 0
	}

	var total int64
	if d.Year >= c.YearZero {
		for y := c.YearZero; y < d.Year; y++ {
			total += int64(c.DaysInYear(y))
		}
	} else {
		for y := d.Year; y < c.YearZero; y++ {
			total -= int64(c.DaysInYear(y))
		}
	}
	for m := 0; m < d.Month && m < len(c.Months); m++ {
		total += int64(c.DaysInMonth(m, d.Year))
	}
	return total + int64(d.Day) - 1
}

// FromAbsoluteDay converts days since the epoch back into a date.
func (c *Calendar) FromAbsoluteDay(n int64) model.Date {
	if c == nil {
		return model.Date{}
	}
	year := c.YearZero
	steps := 0
	for {
		if steps++; steps > maxYearSpan {
			slog.Debug("absolute day conversion exceeded year span, degrading to epoch", "days", n)
			return model.NewDate(c.YearZero, 0, 1)
		}
		yearLen := int64(c.DaysInYear(year))
		if yearLen <= 0 {
			return model.NewDate(c.YearZero, 0, 1)
		}
		if n < 0 {
			year--
			n += int64(c.DaysInYear(year))
			continue
		}
		if n >= yearLen {
			n -= yearLen
			year++
			continue
		}
		break
	}

	month := 0
	for month < c.MonthCount()-1 {
		monthLen := int64(c.DaysInMonth(month, year))
		if n < monthLen {
			break
		}
		n -= monthLen
		month++
	}
	return model.NewDate(year, month, int(n)+1)
}

// AddDays shifts a date by a signed number of days, carrying hour and
// minute through unchanged.
func (c *Calendar) AddDays(d model.Date, days int) model.Date {
	out := c.FromAbsoluteDay(c.AbsoluteDay(d) + int64(days))
	out.Hour, out.Minute = d.Hour, d.Minute
	return out
}

// AddMonths shifts a date by whole months, carrying into adjacent years.
// The day is preserved as-is; callers clamp to the target month's length
// when they need a valid date.
func (c *Calendar) AddMonths(d model.Date, months int) model.Date {
	mc := c.MonthCount()
	idx := int64(d.Year)*int64(mc) + int64(d.Month) + int64(months)
	out := model.Date{
		Year:   int(floorDiv(idx, int64(mc))),
		Month:  int(posMod64(idx, int64(mc))),
		Day:    d.Day,
		Hour:   d.Hour,
		Minute: d.Minute,
	}
	return out
}

// AddYears shifts a date by whole years, preserving month and day.
func (c *Calendar) AddYears(d model.Date, years int) model.Date {
	d.Year += years
	return d
}

// DaysBetween returns the signed day count from a to b.
func (c *Calendar) DaysBetween(a, b model.Date) int64 {
	return c.AbsoluteDay(b) - c.AbsoluteDay(a)
}

// MonthsBetween returns the signed whole-month count from a to b, ignoring
// the day component.
func (c *Calendar) MonthsBetween(a, b model.Date) int {
	return (b.Year-a.Year)*c.MonthCount() + b.Month - a.Month
}

// DayOfYear returns the 1-based ordinal of the date within its year.
func (c *Calendar) DayOfYear(d model.Date) int {
	if c == nil {
		return d.Day
	}
	total := d.Day
	for m := 0; m < d.Month && m < len(c.Months); m++ {
		total += c.DaysInMonth(m, d.Year)
	}
	return total
}

// DayOfWeek returns the weekday index of a date, anchored so the epoch day
// falls on FirstWeekday.
func (c *Calendar) DayOfWeek(d model.Date) int {
	week := int64(c.WeekLength())
	if c == nil {
		return int(posMod64(c.AbsoluteDay(d), week))
	}
	return int(posMod64(c.AbsoluteDay(d)+int64(c.FirstWeekday), week))
}

// ClampDay limits a date's day to the length of its month, used for
// end-of-month clamping in monthly and yearly recurrences.
func (c *Calendar) ClampDay(d model.Date) model.Date {
	if monthLen := c.DaysInMonth(d.Month, d.Year); monthLen > 0 && d.Day > monthLen {
		d.Day = monthLen
	}
	return d
}

// WeekdayName renders a weekday index, falling back to the bare number when
// the calendar has no weekday names.
func (c *Calendar) WeekdayName(weekday int) string {
	if c != nil && weekday >= 0 && weekday < len(c.Weekdays) {
		return c.Weekdays[weekday]
	}
	return strconv.Itoa(weekday)
}

// MonthName renders a month index, falling back to the bare number when
// the index has no name.
func (c *Calendar) MonthName(month int) string {
	if c != nil && month >= 0 && month < len(c.Months) {
		return c.Months[month].Name
	}
	return strconv.Itoa(month)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
