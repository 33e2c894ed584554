package rules

import (
	"time"
)

// ActiveAt reports whether now falls inside the rule's active window.
// Absent bounds impose no constraint; both bounds are inclusive.
func ActiveAt(r Rule, now time.Time) bool {
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && now.After(*r.EndsAt) {
		return false
	}
	return true
}

// SatisfiesCondition reports whether the user context meets the rule's
// condition. Rules without a condition always pass. An attribute that does
// not resolve, an unrecognised operator, or an incomparable value pair all
// fail closed.
func SatisfiesCondition(r Rule, user UserContext) bool {
	cond := r.Condition
	if cond == nil {
		return true
	}
	value, ok := user.Resolve(cond.Attribute)
	if !ok {
		return false
	}
	switch cond.Operator {
	case OpEquals:
		return looseEqual(value, cond.Value)
	case OpNotEquals:
		return !looseEqual(value, cond.Value)
	case OpGreaterThan:
		cmp, ok := ordered(value, cond.Value)
		return ok && cmp > 0
	case OpLessThan:
		cmp, ok := ordered(value, cond.Value)
		return ok && cmp < 0
	default:
		return false
	}
}

// looseEqual compares two attribute values of the same logical type.
// Numeric values compare across Go integer/float representations; values of
// different types are never equal.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// ordered returns -1/0/+1 when both values share an ordering: numbers
// numerically, strings lexically. Anything else is not ordered.
func ordered(a, b any) (int, bool) {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
