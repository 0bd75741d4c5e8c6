package model

import (
	"encoding/json"
	"fmt"
)

// Field names resolvable against a date. Unknown fields resolve to null and
// therefore never match.
type Field string

// Date-derived fields.
const (
	FieldYear              Field = "year"
	FieldMonth             Field = "month"
	FieldDay               Field = "day"
	FieldHour              Field = "hour"
	FieldMinute            Field = "minute"
	FieldWeekday           Field = "weekday"
	FieldDayOfYear         Field = "dayOfYear"
	FieldDaysInMonth       Field = "daysInMonth"
	FieldDaysInYear        Field = "daysInYear"
	FieldWeekNumberInMonth Field = "weekNumberInMonth"
	FieldInverseWeekNumber Field = "inverseWeekNumber"
	FieldTotalWeek         Field = "totalWeek"
	FieldWeekOfYear        Field = "weekOfYear"
	FieldSeason            Field = "season"
	FieldSeasonPercent     Field = "seasonPercent"
	FieldSeasonDay         Field = "seasonDay"
	FieldMoonPhase         Field = "moonPhase"
	FieldMoonPhaseCountMo  Field = "moonPhaseCountMonth"
	FieldMoonPhaseCountYr  Field = "moonPhaseCountYear"
	FieldEra               Field = "era"
	FieldEraYear           Field = "eraYear"
	FieldCycle             Field = "cycle"
	FieldIntercalary       Field = "intercalary"
	FieldLeapYear          Field = "leapYear"
	FieldSpringEquinox     Field = "springEquinox"
	FieldSummerSolstice    Field = "summerSolstice"
	FieldAutumnEquinox     Field = "autumnEquinox"
	FieldWinterSolstice    Field = "winterSolstice"
)

// Operator compares a resolved field value against a condition's value.
type Operator string

// Supported comparison operators. OpModulo matches when
// (field - offset) % value == 0, where the offset defaults to the field's
// value at the event's start date.
const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpModulo       Operator = "%"
)

// Condition is a single field/operator/value predicate. Conditions attached
// to a recurrence spec are AND-combined.
type Condition struct {
	Field Field    `json:"field"`
	Op    Operator `json:"op"`
	// Value is the comparison target. Boolean fields compare against 0/1.
	Value float64 `json:"value"`
	// Value2 is a secondary index where the field needs one: the moon index
	// for moon fields, the cycle index for cycle fields.
	Value2 *int `json:"value2,omitempty"`
	// Offset overrides the implicit start-date-derived offset for OpModulo.
	Offset *int `json:"offset,omitempty"`
}

// Validate checks the condition's shape.
func (c Condition) Validate() error {
	switch c.Op {
	case OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess:
	case OpModulo:
		if c.Value <= 0 {
			return fmt.Errorf("modulo condition requires a positive value, got %v", c.Value)
		}
	default:
		return fmt.Errorf("unknown operator %q", c.Op)
	}
	if c.Field == "" {
		return fmt.Errorf("condition field is required")
	}
	return nil
}

// RangeValue is one component of a range pattern: unconstrained (null), an
// exact scalar, or an inclusive [min,max] pair with either bound optional.
type RangeValue struct {
	Exact *int
	Min   *int
	Max   *int
}

// Matches reports whether v satisfies the constraint.
func (r *RangeValue) Matches(v int) bool {
	if r == nil {
		return true
	}
	if r.Exact != nil {
		return v == *r.Exact
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// UnmarshalJSON accepts a bare number (exact), or a 2-element array with
// nullable bounds.
func (r *RangeValue) UnmarshalJSON(data []byte) error {
	var exact int
	if err := json.Unmarshal(data, &exact); err == nil {
		r.Exact = &exact
		r.Min, r.Max = nil, nil
		return nil
	}

	var pair []*int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("range value must be a number or a [min,max] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("range pair must have exactly 2 elements, got %d", len(pair))
	}
	r.Exact = nil
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// MarshalJSON emits the same forms UnmarshalJSON accepts.
func (r *RangeValue) MarshalJSON() ([]byte, error) {
	if r.Exact != nil {
		return json.Marshal(*r.Exact)
	}
	return json.Marshal([]*int{r.Min, r.Max})
}
