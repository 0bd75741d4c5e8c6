// Package model defines the core domain types: calendar dates, recurrence
// specifications, conditions, and stored notes.
package model

import "fmt"

// Date is a calendar date on an arbitrary in-world calendar.
// Month is 0-based, Day is 1-based. Hour and Minute are optional display
// precision; date arithmetic ignores them. There is no timezone: a Date is
// only meaningful relative to a calendar definition.
type Date struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour,omitempty"`
	Minute int `json:"minute,omitempty"`
}

// NewDate creates a date at midnight.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Compare orders two dates by year, month, day. Hours and minutes are
// ignored: the engine works at day granularity.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	case d.Day != other.Day:
		return sign(d.Day - other.Day)
	default:
		return 0
	}
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// SameDay reports whether both dates name the same calendar day.
func (d Date) SameDay(other Date) bool { return d.Compare(other) == 0 }

// String renders the date in a calendar-agnostic "year/month/day" form with
// a 1-based month, e.g. "1422/03/15".
func (d Date) String() string {
	return fmt.Sprintf("%d/%02d/%02d", d.Year, d.Month+1, d.Day)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
