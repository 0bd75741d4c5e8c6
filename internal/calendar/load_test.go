package calendar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barovianYAML = `
name: Barovian
months:
  - name: Yinvar
    days: 30
  - name: Fivral
    days: 28
    leap_days: 29
  - name: Mart
    days: 31
weekdays: [Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday]
leap:
  rule: simple
  interval: 4
seasons:
  - name: Frost
    day_start: 1
    day_end: 45
moons:
  - name: Mother Night
    cycle_length: 28
    phases:
      - name: Dark
        start: 0
        end: 0.5
      - name: Bright
        start: 0.5
        end: 0.99
`

func TestParse(t *testing.T) {
	cal, err := Parse([]byte(barovianYAML))
	require.NoError(t, err)

	assert.Equal(t, "Barovian", cal.Name)
	assert.Len(t, cal.Months, 3)
	assert.Equal(t, 7, cal.WeekLength())
	assert.Equal(t, 29, cal.DaysInMonth(1, 4))
	assert.Equal(t, 28, cal.DaysInMonth(1, 5))
	// Normalize pins the last phase's end to 1.
	assert.Equal(t, 1.0, cal.Moons[0].Phases[1].End)
}

func TestNormalizePhasePinning(t *testing.T) {
	tests := []struct {
		name    string
		phases  []MoonPhase
		wantEnd float64
	}{
		{
			name:    "drift short of 1 is pinned",
			phases:  []MoonPhase{{Name: "A", Start: 0, End: 0.5}, {Name: "B", Start: 0.5, End: 0.99}},
			wantEnd: 1.0,
		},
		{
			name:    "unset end is pinned",
			phases:  []MoonPhase{{Name: "A", Start: 0.75}},
			wantEnd: 1.0,
		},
		{
			name:    "end below start is left for validation",
			phases:  []MoonPhase{{Name: "A", Start: 0.9, End: 0.5}},
			wantEnd: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := &Calendar{
				Months: []Month{{Name: "M", Days: 30}},
				Moons:  []Moon{{Name: "Husk", CycleLength: 10, Phases: tt.phases}},
			}
			cal.Normalize()
			assert.Equal(t, tt.wantEnd, cal.Moons[0].Phases[len(tt.phases)-1].End)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "{{"},
		{name: "no months", yaml: "name: Empty"},
		{name: "zero-length month", yaml: "months:\n  - name: Void\n    days: 0"},
		{name: "simple leap without interval", yaml: "months:\n  - name: M\n    days: 30\nleap:\n  rule: simple"},
		{name: "moon without cycle", yaml: "months:\n  - name: M\n    days: 30\nmoons:\n  - name: Husk"},
		{
			name: "phase window out of range",
			yaml: "months:\n  - name: M\n    days: 30\nmoons:\n  - name: Husk\n    cycle_length: 10\n    phases:\n      - name: Bad\n        start: 0.9\n        end: 0.5",
		},
		{name: "cycle with unknown basis", yaml: "months:\n  - name: M\n    days: 30\ncycles:\n  - name: C\n    length: 3\n    based_on: moonrise"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeMonthless(t *testing.T) {
	cal := &Calendar{Monthless: true}
	cal.Normalize()

	require.Len(t, cal.Months, 1)
	assert.Equal(t, defaultDaysInYear, cal.Months[0].Days)
	assert.Equal(t, defaultDaysInWeek, cal.WeekLength())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barovian.yaml")
	require.NoError(t, os.WriteFile(path, []byte(barovianYAML), 0o600))

	cal, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Barovian", cal.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
