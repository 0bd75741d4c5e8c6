package engine

import "github.com/alderwick/almanac/internal/model"

// EvaluateCondition applies one condition to a date. start anchors implicit
// modulo offsets: a modulo condition with no explicit offset is measured
// from the field's own value at the event's start date. A field that fails
// to resolve makes the condition false.
func (e *Engine) EvaluateCondition(cond model.Condition, date, start model.Date) bool {
	value, ok := e.ResolveField(cond.Field, date, cond.Value2)
	if !ok {
		return false
	}

	switch cond.Op {
	case model.OpEqual:
		return value == cond.Value
	case model.OpNotEqual:
		return value != cond.Value
	case model.OpGreaterEqual:
		return value >= cond.Value
	case model.OpLessEqual:
		return value <= cond.Value
	case model.OpGreater:
		return value > cond.Value
	case model.OpLess:
		return value < cond.Value
	case model.OpModulo:
		modulus := int64(cond.Value)
		if modulus <= 0 {
			return false
		}
		var offset int64
		if cond.Offset != nil {
			offset = int64(*cond.Offset)
		} else {
			startValue, ok := e.ResolveField(cond.Field, start, cond.Value2)
			if !ok {
				return false
			}
			offset = int64(startValue)
		}
		return posMod64(int64(value)-offset, modulus) == 0
	}
	return false
}

// allConditionsPass ANDs a condition list; an empty list passes.
func (e *Engine) allConditionsPass(conds []model.Condition, date, start model.Date) bool {
	for _, cond := range conds {
		if !e.EvaluateCondition(cond, date, start) {
			return false
		}
	}
	return true
}

func posMod64(v, m int64) int64 {
	return ((v % m) + m) % m
}
