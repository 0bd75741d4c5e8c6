package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderwick/almanac/internal/calendar"
	"github.com/alderwick/almanac/internal/model"
)

func TestResolveAnchorSeasonalPoints(t *testing.T) {
	eng := newTestEngine()

	tests := []struct {
		anchor  string
		wantDoY int
	}{
		// Equinoxes resolve to the season's first day, solstices to its
		// midpoint.
		{anchor: "springEquinox", wantDoY: 1},
		{anchor: "summerSolstice", wantDoY: 76 + 37},
		{anchor: "autumnEquinox", wantDoY: 151},
		{anchor: "winterSolstice", wantDoY: 226 + 37},
		{anchor: "seasonStart:1", wantDoY: 76},
		{anchor: "seasonEnd:1", wantDoY: 150},
	}

	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			cfg := &model.ComputedConfig{
				Chain: []model.ComputedStep{{Kind: model.StepAnchor, Anchor: tt.anchor}},
			}
			got := eng.ResolveComputedDate(cfg, 12)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDoY, eng.Calendar().DayOfYear(*got))
			assert.Equal(t, 12, got.Year)
		})
	}
}

func TestResolveComputedChainGregorian(t *testing.T) {
	// Ten days after the spring equinox: day 90 of the year.
	eng := New(calendar.Gregorian(), nil)
	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "springEquinox"},
			{Kind: model.StepDaysAfter, Days: 10},
		},
	}

	got := eng.ResolveComputedDate(cfg, 2021)
	require.NotNil(t, got)
	assert.Equal(t, 90, eng.Calendar().DayOfYear(*got))
	// Day 90 of a common year is March 31st.
	assert.Equal(t, date(2021, 2, 31), *got)

	got = eng.ResolveComputedDate(cfg, 2020)
	require.NotNil(t, got)
	// Day 90 of a leap year is March 30th.
	assert.Equal(t, date(2020, 2, 30), *got)
}

func TestResolveComputedFirstAfterMoonPhase(t *testing.T) {
	// The first full moon after the summer solstice.
	eng := newTestEngine()
	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "summerSolstice"},
			{Kind: model.StepFirstAfter, Condition: &model.StepCondition{
				Kind:       model.StepCondMoonPhase,
				MoonIndex:  0,
				PhaseIndex: 2,
			}},
		},
	}

	got := eng.ResolveComputedDate(cfg, 0)
	require.NotNil(t, got)
	phase, _, ok := eng.Calendar().MoonPhaseAt(0, eng.Calendar().AbsoluteDay(*got))
	require.True(t, ok)
	assert.Equal(t, 2, phase)
	// Strictly after the anchor day.
	assert.True(t, got.After(date(0, 3, 23)))
}

func TestResolveComputedWeekdayOnOrAfter(t *testing.T) {
	eng := newTestEngine()
	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "seasonStart:2"},
			{Kind: model.StepWeekdayOnOrAfter, Weekday: 0},
		},
	}

	got := eng.ResolveComputedDate(cfg, 3)
	require.NotNil(t, got)
	assert.Equal(t, 0, eng.Calendar().DayOfWeek(*got))
	// At most one week past the anchor.
	anchorDoY := 151
	gotDoY := eng.Calendar().DayOfYear(*got)
	assert.GreaterOrEqual(t, gotDoY, anchorDoY)
	assert.Less(t, gotDoY, anchorDoY+5)
}

func TestYearOverridesShortCircuitChain(t *testing.T) {
	eng := newTestEngine()
	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "springEquinox"},
		},
		YearOverrides: map[int]model.MonthDay{
			7: {Month: 5, Day: 14},
		},
	}

	got := eng.ResolveComputedDate(cfg, 7)
	require.NotNil(t, got)
	assert.Equal(t, date(7, 5, 14), *got)

	// Other years still follow the chain.
	got = eng.ResolveComputedDate(cfg, 8)
	require.NotNil(t, got)
	assert.Equal(t, date(8, 0, 1), *got)
}

func TestResolveComputedEventAnchor(t *testing.T) {
	// daysAfter an anchored event: 5 days after a yearly festival.
	festival := &model.RecurrenceSpec{StartDate: date(1, 4, 20), Repeat: model.RepeatYearly}
	eng := New(testCalendar(), fakeResolver{"festival": festival})

	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "event:festival"},
			{Kind: model.StepDaysAfter, Days: 5},
		},
	}

	got := eng.ResolveComputedDate(cfg, 9)
	require.NotNil(t, got)
	assert.Equal(t, date(9, 4, 25), *got)
}

func TestResolveComputedEventAnchorChainsComputed(t *testing.T) {
	// An event anchored on another computed event resolves through it.
	equinoxFeast := &model.RecurrenceSpec{
		StartDate: date(1, 0, 1),
		Repeat:    model.RepeatComputed,
		ComputedConfig: &model.ComputedConfig{
			Chain: []model.ComputedStep{
				{Kind: model.StepAnchor, Anchor: "autumnEquinox"},
			},
		},
	}
	eng := New(testCalendar(), fakeResolver{"feast": equinoxFeast})

	cfg := &model.ComputedConfig{
		Chain: []model.ComputedStep{
			{Kind: model.StepAnchor, Anchor: "event:feast"},
			{Kind: model.StepDaysAfter, Days: 1},
		},
	}

	got := eng.ResolveComputedDate(cfg, 4)
	require.NotNil(t, got)
	assert.Equal(t, 152, eng.Calendar().DayOfYear(*got))
}

func TestComputedAnchorCycleTerminates(t *testing.T) {
	resolver := fakeResolver{}
	mkSpec := func(target string) *model.RecurrenceSpec {
		return &model.RecurrenceSpec{
			StartDate: date(1, 0, 1),
			Repeat:    model.RepeatComputed,
			ComputedConfig: &model.ComputedConfig{
				Chain: []model.ComputedStep{
					{Kind: model.StepAnchor, Anchor: "event:" + target},
				},
			},
		}
	}
	resolver["a"] = mkSpec("b")
	resolver["b"] = mkSpec("a")
	eng := New(testCalendar(), resolver)

	got := eng.ResolveComputedDate(resolver["a"].ComputedConfig, 5)
	assert.Nil(t, got, "mutually recursive anchors must resolve to nil")
}

func TestResolveComputedFailures(t *testing.T) {
	eng := newTestEngine()

	tests := []struct {
		name string
		cfg  *model.ComputedConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "unknown anchor", cfg: &model.ComputedConfig{
			Chain: []model.ComputedStep{{Kind: model.StepAnchor, Anchor: "vernalFeast"}},
		}},
		{name: "season index out of range", cfg: &model.ComputedConfig{
			Chain: []model.ComputedStep{{Kind: model.StepAnchor, Anchor: "seasonStart:9"}},
		}},
		{name: "firstAfter without condition", cfg: &model.ComputedConfig{
			Chain: []model.ComputedStep{
				{Kind: model.StepAnchor, Anchor: "springEquinox"},
				{Kind: model.StepFirstAfter},
			},
		}},
		{name: "event without resolver", cfg: &model.ComputedConfig{
			Chain: []model.ComputedStep{{Kind: model.StepAnchor, Anchor: "event:missing"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, eng.ResolveComputedDate(tt.cfg, 5))
		})
	}
}

func TestMatchesComputed(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate: date(1, 0, 1),
		Repeat:    model.RepeatComputed,
		ComputedConfig: &model.ComputedConfig{
			Chain: []model.ComputedStep{
				{Kind: model.StepAnchor, Anchor: "seasonStart:3"},
			},
		},
	}

	// Winter starts on day 226: month 7, day 16.
	assert.True(t, eng.IsOccurring(spec, date(2, 7, 16)))
	assert.False(t, eng.IsOccurring(spec, date(2, 7, 17)))
}

func TestComputedMaxOccurrences(t *testing.T) {
	eng := newTestEngine()
	spec := &model.RecurrenceSpec{
		StartDate: date(1, 0, 1),
		Repeat:    model.RepeatComputed,
		ComputedConfig: &model.ComputedConfig{
			Chain: []model.ComputedStep{
				{Kind: model.StepAnchor, Anchor: "springEquinox"},
			},
		},
		MaxOccurrences: 2,
	}

	assert.True(t, eng.IsOccurring(spec, date(1, 0, 1)))
	assert.True(t, eng.IsOccurring(spec, date(2, 0, 1)))
	assert.False(t, eng.IsOccurring(spec, date(3, 0, 1)))
}
