package engine

import (
	"github.com/alderwick/almanac/internal/model"
)

// ConditionResult records the outcome of one extra condition, with the
// field value that was observed on the date.
type ConditionResult struct {
	Condition model.Condition
	Value     float64
	Resolved  bool
	Passed    bool
}

// Explanation breaks an IsOccurring decision into its stages so callers
// can show why a date matched or failed.
type Explanation struct {
	WithinBounds bool
	PatternMatch bool
	// SpanCovered is true when the date falls inside a multi-day span
	// started by an earlier pattern match.
	SpanCovered bool
	// MoonFilter is nil unless the spec carries moon conditions on top
	// of a non-moon pattern.
	MoonFilter *bool
	Conditions []ConditionResult
	Occurring  bool
}

// Explain evaluates spec on date the same way IsOccurring does, recording
// each stage. Stages after a failed one still run so the report is complete.
func (e *Engine) Explain(spec *model.RecurrenceSpec, date model.Date) Explanation {
	var ex Explanation
	if spec == nil {
		return ex
	}

	ex.WithinBounds = e.withinBounds(spec, date)
	ex.PatternMatch = e.matchesPattern(spec, date, maxLinkDepth)
	if !ex.PatternMatch {
		ex.SpanCovered = e.coveredBySpan(spec, date, maxLinkDepth)
	}

	if spec.Kind() != model.RepeatMoon && len(spec.MoonConditions) > 0 {
		passed := e.anyMoonConditionMatches(spec.MoonConditions, date)
		ex.MoonFilter = &passed
	}

	for _, cond := range spec.Conditions {
		value, resolved := e.ResolveField(cond.Field, date, cond.Value2)
		ex.Conditions = append(ex.Conditions, ConditionResult{
			Condition: cond,
			Value:     value,
			Resolved:  resolved,
			Passed:    e.EvaluateCondition(cond, date, spec.StartDate),
		})
	}

	ex.Occurring = ex.WithinBounds &&
		(ex.PatternMatch || ex.SpanCovered) &&
		(ex.MoonFilter == nil || *ex.MoonFilter) &&
		allPassed(ex.Conditions)
	return ex
}

func allPassed(results []ConditionResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
