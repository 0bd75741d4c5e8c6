package calendar

// Gregorian returns the bundled proleptic Gregorian calendar, used when no
// calendar definition is configured. Months are 0-based (January is 0) and
// the epoch (year 0, January 1) falls on a Saturday.
func Gregorian() *Calendar {
	cal := &Calendar{
		Name: "Gregorian",
		Months: []Month{
			{Name: "January", Days: 31},
			{Name: "February", Days: 28, LeapDays: 29},
			{Name: "March", Days: 31},
			{Name: "April", Days: 30},
			{Name: "May", Days: 31},
			{Name: "June", Days: 30},
			{Name: "July", Days: 31},
			{Name: "August", Days: 31},
			{Name: "September", Days: 30},
			{Name: "October", Days: 31},
			{Name: "November", Days: 30},
			{Name: "December", Days: 31},
		},
		Weekdays: []string{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		FirstWeekday: 6,
		Leap:         LeapRule{Rule: LeapGregorian},
		Seasons: []Season{
			{Name: "Spring", DayStart: 80, DayEnd: 171},
			{Name: "Summer", DayStart: 172, DayEnd: 265},
			{Name: "Autumn", DayStart: 266, DayEnd: 354},
			{Name: "Winter", DayStart: 355, DayEnd: 79},
		},
		Moons: []Moon{
			{
				Name:        "Moon",
				CycleLength: 29.530588,
				// Aligns the cycle near the new moon of 2000-01-06.
				OffsetDays: 730490,
				Phases: []MoonPhase{
					{Name: "New Moon", Start: 0, End: 0.125},
					{Name: "Waxing Crescent", Start: 0.125, End: 0.25},
					{Name: "First Quarter", Start: 0.25, End: 0.375},
					{Name: "Waxing Gibbous", Start: 0.375, End: 0.5},
					{Name: "Full Moon", Start: 0.5, End: 0.625},
					{Name: "Waning Gibbous", Start: 0.625, End: 0.75},
					{Name: "Last Quarter", Start: 0.75, End: 0.875},
					{Name: "Waning Crescent", Start: 0.875, End: 1},
				},
			},
		},
		Eras: []Era{
			{Name: "BCE", StartYear: -maxYearSpan, EndYear: intPtr(0)},
			{Name: "CE", StartYear: 1},
		},
	}
	cal.Normalize()
	return cal
}

func intPtr(v int) *int { return &v }
