package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderwick/almanac/internal/model"
)

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		name string
		rule LeapRule
		year int
		want bool
	}{
		{name: "no rule", rule: LeapRule{}, year: 2024, want: false},
		{name: "gregorian divisible by 4", rule: LeapRule{Rule: LeapGregorian}, year: 2024, want: true},
		{name: "gregorian century", rule: LeapRule{Rule: LeapGregorian}, year: 1900, want: false},
		{name: "gregorian quadricentennial", rule: LeapRule{Rule: LeapGregorian}, year: 2000, want: true},
		{name: "gregorian common year", rule: LeapRule{Rule: LeapGregorian}, year: 2023, want: false},
		{name: "simple every 8", rule: LeapRule{Rule: LeapSimple, Interval: 8}, year: 16, want: true},
		{name: "simple off interval", rule: LeapRule{Rule: LeapSimple, Interval: 8}, year: 17, want: false},
		{name: "simple with offset", rule: LeapRule{Rule: LeapSimple, Interval: 8, Offset: 3}, year: 11, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := &Calendar{Leap: tt.rule}
			assert.Equal(t, tt.want, cal.IsLeapYear(tt.year))
		})
	}
}

func TestDaysInMonthLeap(t *testing.T) {
	cal := Gregorian()

	assert.Equal(t, 29, cal.DaysInMonth(1, 2024))
	assert.Equal(t, 28, cal.DaysInMonth(1, 2023))
	assert.Equal(t, 31, cal.DaysInMonth(0, 2024))
	assert.Equal(t, 0, cal.DaysInMonth(12, 2024))
	assert.Equal(t, 0, cal.DaysInMonth(-1, 2024))
}

func TestDaysInYear(t *testing.T) {
	cal := Gregorian()
	assert.Equal(t, 366, cal.DaysInYear(2024))
	assert.Equal(t, 365, cal.DaysInYear(2023))

	assert.Equal(t, 300, harvestmoot().DaysInYear(5))
}

func TestSeasonPosition(t *testing.T) {
	cal := harvestmoot()

	tests := []struct {
		name      string
		dayOfYear int
		wantIndex int
		wantDayIn int
		wantLen   int
	}{
		{name: "first day of spring", dayOfYear: 1, wantIndex: 0, wantDayIn: 1, wantLen: 75},
		{name: "last day of spring", dayOfYear: 75, wantIndex: 0, wantDayIn: 75, wantLen: 75},
		{name: "first day of summer", dayOfYear: 76, wantIndex: 1, wantDayIn: 1, wantLen: 75},
		{name: "deep winter", dayOfYear: 300, wantIndex: 3, wantDayIn: 75, wantLen: 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, dayIn, length, ok := cal.SeasonPosition(tt.dayOfYear, 5)
			require.True(t, ok)
			assert.Equal(t, tt.wantIndex, index)
			assert.Equal(t, tt.wantDayIn, dayIn)
			assert.Equal(t, tt.wantLen, length)
		})
	}
}

func TestSeasonPositionWraps(t *testing.T) {
	// Gregorian winter runs from day 355 across the year boundary to day 79.
	cal := Gregorian()

	index, dayIn, length, ok := cal.SeasonPosition(360, 2023)
	require.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, 6, dayIn)
	assert.Equal(t, 365-355+1+79, length)

	index, dayIn, _, ok = cal.SeasonPosition(10, 2023)
	require.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, 365-355+1+10, dayIn)
}

func TestSeasonIndexByName(t *testing.T) {
	cal := harvestmoot()

	index, ok := cal.SeasonIndexByName("autumn", "fall")
	require.True(t, ok)
	assert.Equal(t, 2, index)

	_, ok = cal.SeasonIndexByName("monsoon")
	assert.False(t, ok)
}

func TestMoonPhaseAt(t *testing.T) {
	cal := harvestmoot()

	tests := []struct {
		name      string
		abs       int64
		wantPhase int
	}{
		{name: "cycle start is new", abs: 0, wantPhase: 0},
		{name: "quarter in is waxing", abs: 8, wantPhase: 1},
		{name: "half cycle is full", abs: 15, wantPhase: 2},
		{name: "late cycle is waning", abs: 27, wantPhase: 3},
		{name: "next cycle wraps to new", abs: 30, wantPhase: 0},
		{name: "negative days wrap", abs: -15, wantPhase: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, fraction, ok := cal.MoonPhaseAt(0, tt.abs)
			require.True(t, ok)
			assert.Equal(t, tt.wantPhase, phase)
			assert.GreaterOrEqual(t, fraction, 0.0)
			assert.Less(t, fraction, 1.0)
		})
	}
}

func TestMoonPhaseAtInvalidMoon(t *testing.T) {
	cal := harvestmoot()
	_, _, ok := cal.MoonPhaseAt(3, 0)
	assert.False(t, ok)
}

func TestEraPosition(t *testing.T) {
	cal := harvestmoot()

	tests := []struct {
		name        string
		year        int
		wantIndex   int
		wantEraYear int
		wantOK      bool
	}{
		{name: "old era", year: -100, wantIndex: 0, wantEraYear: -100 + 10000 + 1, wantOK: true},
		{name: "boundary year", year: 0, wantIndex: 0, wantEraYear: 10001, wantOK: true},
		{name: "current era start", year: 1, wantIndex: 1, wantEraYear: 1, wantOK: true},
		{name: "current era", year: 1422, wantIndex: 1, wantEraYear: 1422, wantOK: true},
		{name: "before all eras", year: -20000, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, eraYear, ok := cal.EraPosition(tt.year)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantIndex, index)
				assert.Equal(t, tt.wantEraYear, eraYear)
			}
		})
	}
}

func TestCycleValue(t *testing.T) {
	cal := harvestmoot()

	// The Watch cycle counts absolute days modulo 5.
	v, ok := cal.CycleValue(0, model.NewDate(0, 0, 1))
	require.True(t, ok)
	assert.Equal(t, 0, v)

	v, ok = cal.CycleValue(0, model.NewDate(0, 0, 4))
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = cal.CycleValue(0, model.NewDate(0, 0, 6))
	require.True(t, ok)
	assert.Equal(t, 0, v)

	_, ok = cal.CycleValue(1, model.NewDate(0, 0, 1))
	assert.False(t, ok)
}

func TestCycleValueYearBased(t *testing.T) {
	cal := &Calendar{
		Cycles: []Cycle{
			{Name: "Zodiac", Length: 12, Offset: 4, BasedOn: CycleByYear},
		},
	}

	v, ok := cal.CycleValue(0, model.NewDate(2024, 0, 1))
	require.True(t, ok)
	assert.Equal(t, (2024-4)%12, v)

	v, ok = cal.CycleValue(0, model.NewDate(-3, 0, 1))
	require.True(t, ok)
	assert.Equal(t, ((-3-4)%12+12)%12, v)
}

func TestNilCalendarIsSafe(t *testing.T) {
	var cal *Calendar

	assert.Equal(t, 7, cal.WeekLength())
	assert.Equal(t, int64(0), cal.AbsoluteDay(model.NewDate(5, 0, 1)))
	assert.Equal(t, 0, cal.DayOfWeek(model.NewDate(5, 0, 1)))
	_, _, _, ok := cal.SeasonPosition(10, 5)
	assert.False(t, ok)
	_, _, ok = cal.EraPosition(5)
	assert.False(t, ok)
}
