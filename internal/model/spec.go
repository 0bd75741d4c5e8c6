package model

import (
	"encoding/json"
	"fmt"
)

// RepeatKind selects which pattern matcher governs an event's recurrence.
type RepeatKind string

// The closed set of recurrence kinds.
const (
	RepeatNever       RepeatKind = "never"
	RepeatDaily       RepeatKind = "daily"
	RepeatWeekly      RepeatKind = "weekly"
	RepeatMonthly     RepeatKind = "monthly"
	RepeatYearly      RepeatKind = "yearly"
	RepeatWeekOfMonth RepeatKind = "weekOfMonth"
	RepeatSeasonal    RepeatKind = "seasonal"
	RepeatRange       RepeatKind = "range"
	RepeatMoon        RepeatKind = "moon"
	RepeatRandom      RepeatKind = "random"
	RepeatComputed    RepeatKind = "computed"
	RepeatLinked      RepeatKind = "linked"
)

// MoonModifier narrows a phase window to a third of the phase's day span.
type MoonModifier string

// Phase thirds: rising is the first third, exact the middle, fading the last.
const (
	MoonModifierNone   MoonModifier = ""
	MoonModifierRising MoonModifier = "rising"
	MoonModifierExact  MoonModifier = "true"
	MoonModifierFading MoonModifier = "fading"
)

// MoonCondition matches a date whose moon phase window equals
// [PhaseStart, PhaseEnd), both expressed as fractions of the moon's cycle.
type MoonCondition struct {
	MoonIndex  int          `json:"moonIndex"`
	PhaseStart float64      `json:"phaseStart"`
	PhaseEnd   float64      `json:"phaseEnd"`
	Modifier   MoonModifier `json:"modifier,omitempty"`
}

// CheckInterval restricts which days a random spec even rolls for.
type CheckInterval string

// Roll cadences for random recurrences.
const (
	CheckDaily   CheckInterval = "daily"
	CheckWeekly  CheckInterval = "weekly"
	CheckMonthly CheckInterval = "monthly"
)

// RandomConfig drives the deterministic pseudo-random matcher.
type RandomConfig struct {
	Seed int64 `json:"seed"`
	// Probability is a percentage in [0,100].
	Probability   float64       `json:"probability"`
	CheckInterval CheckInterval `json:"checkInterval"`
}

// SeasonTrigger selects which days of a season a seasonal spec matches.
type SeasonTrigger string

// Season triggers.
const (
	TriggerEntire   SeasonTrigger = "entire"
	TriggerFirstDay SeasonTrigger = "firstDay"
	TriggerLastDay  SeasonTrigger = "lastDay"
)

// SeasonalConfig matches days of one configured season.
type SeasonalConfig struct {
	SeasonIndex int           `json:"seasonIndex"`
	Trigger     SeasonTrigger `json:"trigger"`
}

// RangePattern matches dates whose year, month and day each independently
// satisfy a RangeValue constraint.
type RangePattern struct {
	Year  *RangeValue `json:"year,omitempty"`
	Month *RangeValue `json:"month,omitempty"`
	Day   *RangeValue `json:"day,omitempty"`
}

// StepKind tags one step of a computed-date chain.
type StepKind string

// Computed chain step kinds.
const (
	StepAnchor           StepKind = "anchor"
	StepFirstAfter       StepKind = "firstAfter"
	StepDaysAfter        StepKind = "daysAfter"
	StepWeekdayOnOrAfter StepKind = "weekdayOnOrAfter"
)

// StepConditionKind tags the search condition of a firstAfter step.
type StepConditionKind string

// firstAfter search conditions.
const (
	StepCondMoonPhase StepConditionKind = "moonPhase"
	StepCondWeekday   StepConditionKind = "weekday"
)

// StepCondition is the thing a firstAfter step searches forward for.
type StepCondition struct {
	Kind       StepConditionKind `json:"kind"`
	MoonIndex  int               `json:"moonIndex,omitempty"`
	PhaseIndex int               `json:"phaseIndex,omitempty"`
	Weekday    int               `json:"weekday,omitempty"`
}

// ComputedStep is one link of a computed-date chain. Exactly the fields for
// its Kind are meaningful.
type ComputedStep struct {
	Kind StepKind `json:"kind"`
	// Anchor names the chain's starting date: one of springEquinox,
	// summerSolstice, autumnEquinox, winterSolstice, seasonStart:<i>,
	// seasonEnd:<i>, or event:<noteID>.
	Anchor    string         `json:"anchor,omitempty"`
	Days      int            `json:"days,omitempty"`
	Weekday   int            `json:"weekday,omitempty"`
	Condition *StepCondition `json:"condition,omitempty"`
}

// MonthDay is a year override's resolved month/day.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ComputedConfig resolves to at most one date per calendar year.
type ComputedConfig struct {
	Chain []ComputedStep `json:"chain"`
	// YearOverrides short-circuit the chain for specific years.
	YearOverrides map[int]MonthDay `json:"yearOverrides,omitempty"`
}

// LinkedEvent defines a recurrence relative to another note's occurrences,
// shifted by a signed day offset.
type LinkedEvent struct {
	NoteID string `json:"noteId"`
	Offset int    `json:"offset"`
}

// RecurrenceSpec is the full, immutable description of one event's schedule.
// The engine never mutates a spec.
type RecurrenceSpec struct {
	StartDate Date `json:"startDate"`
	// EndDate, when set past StartDate, gives the first occurrence a
	// multi-day span; every occurrence covers the same number of days.
	EndDate *Date `json:"endDate,omitempty"`
	// RepeatEndDate is the inclusive recurrence cutoff.
	RepeatEndDate *Date      `json:"repeatEndDate,omitempty"`
	Repeat        RepeatKind `json:"repeat"`
	// RepeatInterval stretches periodic kinds: every N days/weeks/months/years.
	RepeatInterval int `json:"repeatInterval"`
	// MaxOccurrences caps how many times the event fires; 0 means unlimited.
	MaxOccurrences int `json:"maxOccurrences"`

	MoonConditions []MoonCondition `json:"moonConditions,omitempty"`
	RandomConfig   *RandomConfig   `json:"randomConfig,omitempty"`
	SeasonalConfig *SeasonalConfig `json:"seasonalConfig,omitempty"`
	// Weekday and WeekNumber configure weekOfMonth specs. WeekNumber 1..5 is
	// the nth weekday of the month, -1..-2 counts from the month's end.
	Weekday        *int             `json:"weekday,omitempty"`
	WeekNumber     *int             `json:"weekNumber,omitempty"`
	RangePattern   *RangePattern    `json:"rangePattern,omitempty"`
	ComputedConfig *ComputedConfig  `json:"computedConfig,omitempty"`
	LinkedEvent    *LinkedEvent     `json:"linkedEvent,omitempty"`

	// Conditions are extra AND-combined filters on top of the primary pattern.
	Conditions []Condition `json:"conditions,omitempty"`
}

// Interval returns the effective repeat interval, never less than 1.
func (s *RecurrenceSpec) Interval() int {
	if s.RepeatInterval < 1 {
		return 1
	}
	return s.RepeatInterval
}

// Kind returns the effective repeat kind; an absent kind means "never".
func (s *RecurrenceSpec) Kind() RepeatKind {
	if s.Repeat == "" {
		return RepeatNever
	}
	return s.Repeat
}

// Validate checks that the spec's shape is internally consistent. It does
// not consult a calendar: topology-dependent checks (month bounds, season
// indices) degrade to non-match at evaluation time instead.
func (s *RecurrenceSpec) Validate() error {
	switch s.Kind() {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly,
		RepeatWeekOfMonth, RepeatSeasonal, RepeatRange, RepeatMoon,
		RepeatRandom, RepeatComputed, RepeatLinked:
	default:
		return fmt.Errorf("unknown repeat kind %q", s.Repeat)
	}

	if s.RepeatInterval < 0 {
		return fmt.Errorf("repeat interval must be >= 1, got %d", s.RepeatInterval)
	}
	if s.MaxOccurrences < 0 {
		return fmt.Errorf("max occurrences must be >= 0, got %d", s.MaxOccurrences)
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("end date %s precedes start date %s", s.EndDate, s.StartDate)
	}
	if s.RepeatEndDate != nil && s.RepeatEndDate.Before(s.StartDate) {
		return fmt.Errorf("repeat end date %s precedes start date %s", s.RepeatEndDate, s.StartDate)
	}

	switch s.Kind() {
	case RepeatMoon:
		if len(s.MoonConditions) == 0 {
			return fmt.Errorf("moon recurrence requires at least one moon condition")
		}
	case RepeatRandom:
		if s.RandomConfig == nil {
			return fmt.Errorf("random recurrence requires a random config")
		}
		if s.RandomConfig.Probability < 0 || s.RandomConfig.Probability > 100 {
			return fmt.Errorf("random probability must be within [0,100], got %v", s.RandomConfig.Probability)
		}
	case RepeatSeasonal:
		if s.SeasonalConfig == nil {
			return fmt.Errorf("seasonal recurrence requires a seasonal config")
		}
		if s.SeasonalConfig.SeasonIndex < 0 {
			return fmt.Errorf("season index must be >= 0, got %d", s.SeasonalConfig.SeasonIndex)
		}
	case RepeatRange:
		if s.RangePattern == nil {
			return fmt.Errorf("range recurrence requires a range pattern")
		}
	case RepeatComputed:
		if s.ComputedConfig == nil || len(s.ComputedConfig.Chain) == 0 {
			return fmt.Errorf("computed recurrence requires a non-empty chain")
		}
		if s.ComputedConfig.Chain[0].Kind != StepAnchor {
			return fmt.Errorf("computed chain must begin with an anchor step")
		}
	case RepeatLinked:
		if s.LinkedEvent == nil || s.LinkedEvent.NoteID == "" {
			return fmt.Errorf("linked recurrence requires a target note id")
		}
	}

	for _, mc := range s.MoonConditions {
		if mc.MoonIndex < 0 {
			return fmt.Errorf("moon index must be >= 0, got %d", mc.MoonIndex)
		}
		if mc.PhaseStart < 0 || mc.PhaseStart >= 1 || mc.PhaseEnd < 0 || mc.PhaseEnd > 1 {
			return fmt.Errorf("moon phase window [%v,%v) out of bounds", mc.PhaseStart, mc.PhaseEnd)
		}
		switch mc.Modifier {
		case MoonModifierNone, MoonModifierRising, MoonModifierExact, MoonModifierFading:
		default:
			return fmt.Errorf("unknown moon modifier %q", mc.Modifier)
		}
	}

	for i, c := range s.Conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

// ParseSpec decodes and validates a JSON recurrence spec.
func ParseSpec(data []byte) (*RecurrenceSpec, error) {
	var spec RecurrenceSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse recurrence spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recurrence spec: %w", err)
	}
	return &spec, nil
}
