package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alderwick/almanac/internal/model"
)

func TestDescribe(t *testing.T) {
	eng := newTestEngine()

	tests := []struct {
		name string
		spec *model.RecurrenceSpec
		want string
	}{
		{
			name: "nil spec",
			spec: nil,
			want: "never",
		},
		{
			name: "once",
			spec: &model.RecurrenceSpec{StartDate: date(5, 3, 10)},
			want: "once, on 5/04/10",
		},
		{
			name: "daily",
			spec: &model.RecurrenceSpec{StartDate: date(1, 0, 1), Repeat: model.RepeatDaily},
			want: "every day",
		},
		{
			name: "every 3 days",
			spec: &model.RecurrenceSpec{StartDate: date(1, 0, 1), Repeat: model.RepeatDaily, RepeatInterval: 3},
			want: "every 3 days",
		},
		{
			name: "weekly names the weekday",
			spec: &model.RecurrenceSpec{StartDate: date(5, 0, 3), Repeat: model.RepeatWeekly},
			want: "every Wellday",
		},
		{
			name: "monthly",
			spec: &model.RecurrenceSpec{StartDate: date(5, 0, 17), Repeat: model.RepeatMonthly},
			want: "monthly on day 17",
		},
		{
			name: "yearly names the month",
			spec: &model.RecurrenceSpec{StartDate: date(5, 6, 12), Repeat: model.RepeatYearly},
			want: "yearly on Harvestmoot 12",
		},
		{
			name: "week of month",
			spec: &model.RecurrenceSpec{
				StartDate:  date(5, 0, 8),
				Repeat:     model.RepeatWeekOfMonth,
				Weekday:    intPtr(2),
				WeekNumber: intPtr(2),
			},
			want: "the 2nd Wellday of every month",
		},
		{
			name: "last week of month",
			spec: &model.RecurrenceSpec{
				StartDate:  date(5, 0, 8),
				Repeat:     model.RepeatWeekOfMonth,
				Weekday:    intPtr(0),
				WeekNumber: intPtr(-1),
			},
			want: "the last Kingsday of every month",
		},
		{
			name: "seasonal first day",
			spec: &model.RecurrenceSpec{
				StartDate:      date(1, 0, 1),
				Repeat:         model.RepeatSeasonal,
				SeasonalConfig: &model.SeasonalConfig{SeasonIndex: 1, Trigger: model.TriggerFirstDay},
			},
			want: "on the first day of Summer",
		},
		{
			name: "moon names the phase",
			spec: &model.RecurrenceSpec{
				StartDate: date(1, 0, 1),
				Repeat:    model.RepeatMoon,
				MoonConditions: []model.MoonCondition{
					{MoonIndex: 0, PhaseStart: 0.5, PhaseEnd: 0.75},
				},
			},
			want: "when the moon is Full",
		},
		{
			name: "moon with modifier",
			spec: &model.RecurrenceSpec{
				StartDate: date(1, 0, 1),
				Repeat:    model.RepeatMoon,
				MoonConditions: []model.MoonCondition{
					{MoonIndex: 0, PhaseStart: 0, PhaseEnd: 0.25, Modifier: model.MoonModifierRising},
				},
			},
			want: "when the moon is New (rising)",
		},
		{
			name: "random",
			spec: &model.RecurrenceSpec{
				StartDate:    date(1, 0, 1),
				Repeat:       model.RepeatRandom,
				RandomConfig: &model.RandomConfig{Seed: 7, Probability: 25, CheckInterval: model.CheckWeekly},
			},
			want: "randomly (25% weekly chance)",
		},
		{
			name: "linked after",
			spec: &model.RecurrenceSpec{
				StartDate:   date(1, 0, 1),
				Repeat:      model.RepeatLinked,
				LinkedEvent: &model.LinkedEvent{NoteID: "festival", Offset: 3},
			},
			want: "3 days after event festival",
		},
		{
			name: "linked before",
			spec: &model.RecurrenceSpec{
				StartDate:   date(1, 0, 1),
				Repeat:      model.RepeatLinked,
				LinkedEvent: &model.LinkedEvent{NoteID: "festival", Offset: -1},
			},
			want: "1 day before event festival",
		},
		{
			name: "suffixes accumulate",
			spec: &model.RecurrenceSpec{
				StartDate:      date(1, 0, 1),
				EndDate:        datePtr(1, 0, 3),
				RepeatEndDate:  datePtr(9, 9, 30),
				Repeat:         model.RepeatDaily,
				MaxOccurrences: 4,
				Conditions: []model.Condition{
					{Field: model.FieldWeekday, Op: model.OpEqual, Value: 0},
				},
			},
			want: "every day, until 9/10/30, up to 4 times, lasting 3 days (with 1 extra condition)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eng.Describe(tt.spec))
		})
	}
}
