package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderwick/almanac/internal/calendar"
	"github.com/alderwick/almanac/internal/model"
)

func TestOccurrencesDaily(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate:      date(1, 0, 1),
		Repeat:         model.RepeatDaily,
		RepeatInterval: 5,
	}

	got := eng.OccurrencesInRange(spec, date(1, 0, 1), date(1, 0, 20), 0)
	assert.Equal(t, []model.Date{
		date(1, 0, 1), date(1, 0, 6), date(1, 0, 11), date(1, 0, 16),
	}, got)
}

func TestOccurrencesRangeStartsMidStride(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate:      date(1, 0, 1),
		Repeat:         model.RepeatDaily,
		RepeatInterval: 5,
	}

	// The range opens between occurrences; the first hit is the next one
	// on stride, not the range start.
	got := eng.OccurrencesInRange(spec, date(1, 0, 3), date(1, 0, 14), 0)
	assert.Equal(t, []model.Date{date(1, 0, 6), date(1, 0, 11)}, got)
}

func TestOccurrencesWeekly(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{StartDate: date(5, 0, 3), Repeat: model.RepeatWeekly}

	got := eng.OccurrencesInRange(spec, date(5, 0, 1), date(5, 0, 30), 0)
	require.Len(t, got, 6)
	for _, d := range got {
		assert.Equal(t, eng.Calendar().DayOfWeek(spec.StartDate), eng.Calendar().DayOfWeek(d))
	}
	assert.Equal(t, date(5, 0, 3), got[0])
	assert.Equal(t, date(5, 0, 28), got[5])
}

func TestOccurrencesMonthlyClamped(t *testing.T) {
	eng := New(calendar.Gregorian(), nil)
	spec := &model.RecurrenceSpec{StartDate: date(2024, 0, 31), Repeat: model.RepeatMonthly}

	got := eng.OccurrencesInRange(spec, date(2024, 0, 1), date(2024, 4, 31), 0)
	assert.Equal(t, []model.Date{
		date(2024, 0, 31),
		date(2024, 1, 29),
		date(2024, 2, 31),
		date(2024, 3, 30),
		date(2024, 4, 31),
	}, got)
}

func TestOccurrencesYearlyMaxOccurrences(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate:      date(2000, 5, 10),
		Repeat:         model.RepeatYearly,
		MaxOccurrences: 3,
	}

	got := eng.OccurrencesInRange(spec, date(2000, 0, 1), date(2009, 9, 30), 0)
	assert.Equal(t, []model.Date{
		date(2000, 5, 10), date(2001, 5, 10), date(2002, 5, 10),
	}, got)
}

func TestOccurrencesMaxCountTruncates(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{StartDate: date(1, 0, 1), Repeat: model.RepeatDaily}

	got := eng.OccurrencesInRange(spec, date(1, 0, 1), date(1, 9, 30), 7)
	assert.Len(t, got, 7)
	assert.Equal(t, date(1, 0, 7), got[6])
}

func TestOccurrencesRespectRepeatEnd(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate:     date(1, 0, 1),
		Repeat:        model.RepeatDaily,
		RepeatEndDate: datePtr(1, 0, 4),
	}

	got := eng.OccurrencesInRange(spec, date(1, 0, 1), date(1, 0, 30), 0)
	assert.Len(t, got, 4)
}

func TestOccurrencesWeekOfMonth(t *testing.T) {
	eng := New(calendar.Gregorian(), nil)
	spec := &model.RecurrenceSpec{
		StartDate:  date(2022, 10, 8),
		Repeat:     model.RepeatWeekOfMonth,
		Weekday:    intPtr(2),
		WeekNumber: intPtr(2),
	}

	got := eng.OccurrencesInRange(spec, date(2022, 10, 1), date(2023, 0, 31), 0)
	assert.Equal(t, []model.Date{
		date(2022, 10, 8),
		date(2022, 11, 13),
		date(2023, 0, 10),
	}, got)
}

func TestOccurrencesWeekOfMonthLast(t *testing.T) {
	eng := New(calendar.Gregorian(), nil)
	spec := &model.RecurrenceSpec{
		StartDate:  date(2022, 10, 25),
		Repeat:     model.RepeatWeekOfMonth,
		Weekday:    intPtr(5),
		WeekNumber: intPtr(-1),
	}

	got := eng.OccurrencesInRange(spec, date(2022, 10, 1), date(2023, 0, 31), 0)
	assert.Equal(t, []model.Date{
		date(2022, 10, 25),
		date(2022, 11, 30),
		date(2023, 0, 27),
	}, got)
}

func TestOccurrencesComputed(t *testing.T) {
	eng := New(calendar.Gregorian(), nil)
	spec := &model.RecurrenceSpec{
		StartDate: date(2020, 0, 1),
		Repeat:    model.RepeatComputed,
		ComputedConfig: &model.ComputedConfig{
			Chain: []model.ComputedStep{
				{Kind: model.StepAnchor, Anchor: "springEquinox"},
				{Kind: model.StepDaysAfter, Days: 10},
			},
			YearOverrides: map[int]model.MonthDay{
				2021: {Month: 5, Day: 1},
			},
		},
	}

	got := eng.OccurrencesInRange(spec, date(2020, 0, 1), date(2022, 11, 31), 0)
	assert.Equal(t, []model.Date{
		date(2020, 2, 30),
		date(2021, 5, 1),
		date(2022, 2, 31),
	}, got)
}

func TestOccurrencesScannedKinds(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate:      date(1, 0, 1),
		Repeat:         model.RepeatSeasonal,
		SeasonalConfig: &model.SeasonalConfig{SeasonIndex: 1, Trigger: model.TriggerFirstDay},
	}

	got := eng.OccurrencesInRange(spec, date(1, 0, 1), date(3, 9, 30), 0)
	assert.Equal(t, []model.Date{
		date(1, 2, 16), date(2, 2, 16), date(3, 2, 16),
	}, got)
}

func TestOccurrencesAgreeWithIsOccurring(t *testing.T) {
	eng := newTestEngine()

	specs := []*model.RecurrenceSpec{
		{StartDate: date(1, 0, 3), Repeat: model.RepeatDaily, RepeatInterval: 4},
		{StartDate: date(1, 0, 3), Repeat: model.RepeatWeekly, RepeatInterval: 2},
		{StartDate: date(1, 0, 17), Repeat: model.RepeatMonthly},
		{StartDate: date(1, 2, 5), Repeat: model.RepeatYearly},
		{
			StartDate:    date(1, 0, 1),
			Repeat:       model.RepeatRandom,
			RandomConfig: &model.RandomConfig{Seed: 99, Probability: 20},
		},
		{
			StartDate: date(1, 0, 1),
			Repeat:    model.RepeatRange,
			RangePattern: &model.RangePattern{
				Day: &model.RangeValue{Min: intPtr(28), Max: intPtr(30)},
			},
		},
	}

	lo, hi := date(1, 0, 1), date(2, 9, 30)
	for i, spec := range specs {
		listed := make(map[model.Date]bool)
		for _, d := range eng.OccurrencesInRange(spec, lo, hi, 0) {
			listed[d] = true
		}
		d := lo
		for !d.After(hi) {
			assert.Equal(t, eng.IsOccurring(spec, d), listed[d], "spec %d date %s", i, d)
			d = eng.Calendar().AddDays(d, 1)
		}
	}
}

func TestCachedOccurrencesInRange(t *testing.T) {
	eng := newTestEngine()
	cached := []model.Date{
		date(1, 0, 5), date(1, 2, 10), date(1, 5, 1), date(2, 0, 5),
	}

	got := eng.CachedOccurrencesInRange(cached, date(1, 1, 1), date(1, 9, 30), 0)
	assert.Equal(t, []model.Date{date(1, 2, 10), date(1, 5, 1)}, got)

	got = eng.CachedOccurrencesInRange(cached, date(1, 0, 1), date(2, 9, 30), 2)
	assert.Len(t, got, 2)

	assert.Empty(t, eng.CachedOccurrencesInRange(nil, date(1, 0, 1), date(2, 0, 1), 0))
}

func TestOccurrencesEmptyAndInvertedRanges(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{StartDate: date(5, 0, 1), Repeat: model.RepeatDaily}

	assert.Empty(t, eng.OccurrencesInRange(spec, date(2, 0, 1), date(1, 0, 1), 0), "inverted range")
	assert.Empty(t, eng.OccurrencesInRange(spec, date(1, 0, 1), date(4, 9, 30), 0), "range before start")
	assert.Empty(t, eng.OccurrencesInRange(nil, date(1, 0, 1), date(2, 0, 1), 0))
}

func TestOccurrencesNever(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{StartDate: date(5, 3, 10)}

	assert.Equal(t, []model.Date{date(5, 3, 10)},
		eng.OccurrencesInRange(spec, date(5, 0, 1), date(5, 9, 30), 0))
	assert.Empty(t, eng.OccurrencesInRange(spec, date(6, 0, 1), date(6, 9, 30), 0))
}
