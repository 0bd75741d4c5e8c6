// Package calendar models configurable in-world calendars: variable month
// and week lengths, leap rules, seasons, moons, eras, and named cycles. All
// date arithmetic for the recurrence engine routes through this package; no
// code here assumes 30-day months or 365-day years.
package calendar

import (
	"math"
	"strings"

	"github.com/alderwick/almanac/internal/model"
)

// Fallback topology used when a calendar is missing the relevant section.
const (
	defaultDaysInWeek = 7
	defaultDaysInYear = 365
)

// MonthType distinguishes regular months from intercalary insertions.
type MonthType string

// Month types.
const (
	MonthStandard    MonthType = "standard"
	MonthIntercalary MonthType = "intercalary"
)

// Month is one entry of a calendar's month table.
type Month struct {
	Name string    `yaml:"name"`
	Days int       `yaml:"days"`
	Type MonthType `yaml:"type,omitempty"`
	// LeapDays is the month's length in leap years; 0 means same as Days.
	LeapDays int `yaml:"leap_days,omitempty"`
}

// LeapRuleKind selects how leap years are determined.
type LeapRuleKind string

// Leap rule kinds.
const (
	LeapNone LeapRuleKind = "none"
	// LeapSimple marks every Interval-th year counted from Offset.
	LeapSimple LeapRuleKind = "simple"
	// LeapGregorian is the 4/100/400 rule.
	LeapGregorian LeapRuleKind = "gregorian"
)

// LeapRule describes which years are leap years.
type LeapRule struct {
	Rule     LeapRuleKind `yaml:"rule,omitempty"`
	Interval int          `yaml:"interval,omitempty"`
	Offset   int          `yaml:"offset,omitempty"`
}

// Season is a named day-of-year range. DayStart > DayEnd means the season
// wraps across the year boundary (e.g. winter).
type Season struct {
	Name     string `yaml:"name"`
	DayStart int    `yaml:"day_start"`
	DayEnd   int    `yaml:"day_end"`
}

// MoonPhase is a named window of a moon's cycle, [Start, End) as fractions.
type MoonPhase struct {
	Name  string  `yaml:"name"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Moon is one moon with its cycle length in days and phase table.
type Moon struct {
	Name        string      `yaml:"name"`
	CycleLength float64     `yaml:"cycle_length"`
	// OffsetDays shifts the cycle so that absolute day OffsetDays is the
	// start of the first phase.
	OffsetDays float64     `yaml:"offset_days,omitempty"`
	Phases     []MoonPhase `yaml:"phases"`
}

// Era is a named span of years. A nil EndYear leaves the era open-ended.
type Era struct {
	Name      string `yaml:"name"`
	StartYear int    `yaml:"start_year"`
	EndYear   *int   `yaml:"end_year,omitempty"`
}

// CycleBasis selects which date component a cycle counts.
type CycleBasis string

// Cycle bases.
const (
	CycleByYear     CycleBasis = "year"
	CycleByEraYear  CycleBasis = "eraYear"
	CycleByMonth    CycleBasis = "month"
	CycleByMonthDay CycleBasis = "monthDay"
	CycleByYearDay  CycleBasis = "yearDay"
	CycleByDay      CycleBasis = "day"
)

// Cycle is a repeating numbering sequence layered on top of the date axis,
// e.g. a twelve-animal year cycle.
type Cycle struct {
	Name    string     `yaml:"name"`
	Length  int        `yaml:"length"`
	Offset  int        `yaml:"offset,omitempty"`
	BasedOn CycleBasis `yaml:"based_on"`
	Entries []string   `yaml:"entries,omitempty"`
}

// Calendar is a complete calendar definition. It is read-mostly: the engine
// treats it as injected context and never mutates it.
type Calendar struct {
	Name     string   `yaml:"name"`
	Months   []Month  `yaml:"months"`
	Weekdays []string `yaml:"weekdays"`
	// DaysInWeek defaults to len(Weekdays).
	DaysInWeek int `yaml:"days_in_week,omitempty"`
	// FirstWeekday is the weekday index of the epoch day (year zero,
	// month 0, day 1).
	FirstWeekday int `yaml:"first_weekday,omitempty"`
	// YearZero anchors absolute day 0.
	YearZero int `yaml:"year_zero,omitempty"`
	// Monthless calendars track days of the year only; Normalize gives them
	// a single synthetic month so month arithmetic stays well defined.
	Monthless bool     `yaml:"monthless,omitempty"`
	Leap      LeapRule `yaml:"leap,omitempty"`
	Seasons   []Season `yaml:"seasons,omitempty"`
	Moons     []Moon   `yaml:"moons,omitempty"`
	Eras      []Era    `yaml:"eras,omitempty"`
	Cycles    []Cycle  `yaml:"cycles,omitempty"`
}

// WeekLength returns the number of days in a week, defaulting to 7.
func (c *Calendar) WeekLength() int {
	if c == nil {
		return defaultDaysInWeek
	}
	if c.DaysInWeek > 0 {
		return c.DaysInWeek
	}
	if len(c.Weekdays) > 0 {
		return len(c.Weekdays)
	}
	return defaultDaysInWeek
}

// MonthCount returns the number of months per year, never less than 1.
func (c *Calendar) MonthCount() int {
	if c == nil || len(c.Months) == 0 {
		return 1
	}
	return len(c.Months)
}

// IsLeapYear applies the calendar's leap rule to a year.
func (c *Calendar) IsLeapYear(year int) bool {
	if c == nil {
		return false
	}
	switch c.Leap.Rule {
	case LeapSimple:
		if c.Leap.Interval <= 0 {
			return false
		}
		return posMod(year-c.Leap.Offset, c.Leap.Interval) == 0
	case LeapGregorian:
		return year%4 == 0 && (year%100 != 0 || year%400 == 0)
	default:
		return false
	}
}

// DaysInMonth returns the leap-aware length of a month, or 0 when the month
// index is out of range.
func (c *Calendar) DaysInMonth(month, year int) int {
	if c == nil || month < 0 || month >= len(c.Months) {
		return 0
	}
	m := c.Months[month]
	if m.LeapDays > 0 && c.IsLeapYear(year) {
		return m.LeapDays
	}
	return m.Days
}

// DaysInYear returns the leap-aware length of a year.
func (c *Calendar) DaysInYear(year int) int {
	if c == nil || len(c.Months) == 0 {
		return defaultDaysInYear
	}
	total := 0
	for m := range c.Months {
		total += c.DaysInMonth(m, year)
	}
	return total
}

// IsIntercalary reports whether a month index names an intercalary month.
func (c *Calendar) IsIntercalary(month int) bool {
	if c == nil || month < 0 || month >= len(c.Months) {
		return false
	}
	return c.Months[month].Type == MonthIntercalary
}

// SeasonPosition locates the season containing a 1-based day of year.
// It returns the season index, the 1-based day offset into the season, and
// the season's total length, handling ranges that wrap the year boundary.
func (c *Calendar) SeasonPosition(dayOfYear, year int) (index, dayIn, length int, ok bool) {
	if c == nil || len(c.Seasons) == 0 {
		return 0, 0, 0, false
	}
	yearLen := c.DaysInYear(year)
	for i, s := range c.Seasons {
		if s.DayStart <= s.DayEnd {
			if dayOfYear >= s.DayStart && dayOfYear <= s.DayEnd {
				return i, dayOfYear - s.DayStart + 1, s.DayEnd - s.DayStart + 1, true
			}
			continue
		}
		// Wrapping season: [DayStart..yearLen] ∪ [1..DayEnd].
		segLen := yearLen - s.DayStart + 1 + s.DayEnd
		if dayOfYear >= s.DayStart {
			return i, dayOfYear - s.DayStart + 1, segLen, true
		}
		if dayOfYear <= s.DayEnd {
			return i, yearLen - s.DayStart + 1 + dayOfYear, segLen, true
		}
	}
	return 0, 0, 0, false
}

// SeasonMidpoint returns the day of year at the middle of a season's range,
// wrapping into the next year's early days when the season itself wraps.
func (c *Calendar) SeasonMidpoint(index, year int) (int, bool) {
	if c == nil || index < 0 || index >= len(c.Seasons) {
		return 0, false
	}
	s := c.Seasons[index]
	yearLen := c.DaysInYear(year)
	length := s.DayEnd - s.DayStart + 1
	if s.DayStart > s.DayEnd {
		length = yearLen - s.DayStart + 1 + s.DayEnd
	}
	mid := s.DayStart + length/2
	if mid > yearLen {
		mid -= yearLen
	}
	return mid, true
}

// SeasonIndexByName finds a season whose name contains any of the given
// case-insensitive fragments.
func (c *Calendar) SeasonIndexByName(fragments ...string) (int, bool) {
	if c == nil {
		return 0, false
	}
	for i, s := range c.Seasons {
		name := strings.ToLower(s.Name)
		for _, f := range fragments {
			if strings.Contains(name, f) {
				return i, true
			}
		}
	}
	return 0, false
}

// MoonPhaseAt resolves the phase of a moon at noon on the given absolute
// day. It returns the phase index and the moon's cycle fraction at that
// instant.
func (c *Calendar) MoonPhaseAt(moonIndex int, absoluteDay int64) (phaseIndex int, fraction float64, ok bool) {
	if c == nil || moonIndex < 0 || moonIndex >= len(c.Moons) {
		return 0, 0, false
	}
	m := c.Moons[moonIndex]
	if m.CycleLength <= 0 || len(m.Phases) == 0 {
		return 0, 0, false
	}
	age := math.Mod(float64(absoluteDay)+0.5-m.OffsetDays, m.CycleLength)
	if age < 0 {
		age += m.CycleLength
	}
	fraction = age / m.CycleLength
	for i, p := range m.Phases {
		if fraction >= p.Start && fraction < p.End {
			return i, fraction, true
		}
	}
	// Phase tables should cover [0,1); tolerate gaps by snapping to the
	// last phase.
	return len(m.Phases) - 1, fraction, true
}

// EraPosition finds the era containing a year: the era with the greatest
// StartYear <= year whose EndYear, if bounded, is not exceeded. EraYear is
// 1-based within the era.
func (c *Calendar) EraPosition(year int) (index, eraYear int, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	best := -1
	for i, e := range c.Eras {
		if e.StartYear > year {
			continue
		}
		if e.EndYear != nil && year > *e.EndYear {
			continue
		}
		if best < 0 || e.StartYear >= c.Eras[best].StartYear {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, year - c.Eras[best].StartYear + 1, true
}

// CycleValue reduces a date to its position within a named cycle:
// ((base - offset) % length + length) % length, where base depends on the
// cycle's BasedOn component.
func (c *Calendar) CycleValue(cycleIndex int, d model.Date) (int, bool) {
	if c == nil || cycleIndex < 0 || cycleIndex >= len(c.Cycles) {
		return 0, false
	}
	cy := c.Cycles[cycleIndex]
	if cy.Length <= 0 {
		return 0, false
	}

	var base int64
	switch cy.BasedOn {
	case CycleByYear:
		base = int64(d.Year)
	case CycleByEraYear:
		_, eraYear, ok := c.EraPosition(d.Year)
		if !ok {
			return 0, false
		}
		base = int64(eraYear)
	case CycleByMonth:
		base = int64(d.Month)
	case CycleByMonthDay:
		base = int64(d.Day)
	case CycleByYearDay:
		base = int64(c.DayOfYear(d))
	case CycleByDay:
		base = c.AbsoluteDay(d)
	default:
		return 0, false
	}
	return int(posMod64(base-int64(cy.Offset), int64(cy.Length))), true
}

func posMod(v, m int) int {
	return ((v % m) + m) % m
}

func posMod64(v, m int64) int64 {
	return ((v % m) + m) % m
}
