package rules

import (
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestActiveAtWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		rule Rule
		want bool
	}{
		{"no bounds", Rule{}, true},
		{"inside window", Rule{StartsAt: ts("2026-06-01T00:00:00Z"), EndsAt: ts("2026-06-30T00:00:00Z")}, true},
		{"before start", Rule{StartsAt: ts("2026-07-01T00:00:00Z")}, false},
		{"after end", Rule{EndsAt: ts("2026-06-01T00:00:00Z")}, false},
		{"start boundary inclusive", Rule{StartsAt: ts("2026-06-15T12:00:00Z")}, true},
		{"end boundary inclusive", Rule{EndsAt: ts("2026-06-15T12:00:00Z")}, true},
	}
	for _, tc := range cases {
		if got := ActiveAt(tc.rule, now); got != tc.want {
			t.Fatalf("%s: ActiveAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSatisfiesConditionResolution(t *testing.T) {
	rule := Rule{Condition: &Condition{Attribute: "is_first_time", Operator: OpEquals, Value: true}}

	if !SatisfiesCondition(Rule{}, UserContext{}) {
		t.Fatal("rule without condition must always pass")
	}
	if !SatisfiesCondition(rule, UserContext{"is_first_time": true}) {
		t.Fatal("literal snake_case key should resolve")
	}
	if !SatisfiesCondition(rule, UserContext{"isFirstTime": true}) {
		t.Fatal("camelCase fallback should resolve")
	}
	if SatisfiesCondition(rule, UserContext{"somethingElse": true}) {
		t.Fatal("unresolvable attribute must fail closed")
	}
	if SatisfiesCondition(rule, UserContext{"is_first_time": false}) {
		t.Fatal("non-matching value should not satisfy")
	}
}

func TestSatisfiesConditionOperators(t *testing.T) {
	ctx := UserContext{"order_count": float64(5), "tier": "gold"}
	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals number", Condition{Attribute: "order_count", Operator: OpEquals, Value: float64(5)}, true},
		{"not_equals number", Condition{Attribute: "order_count", Operator: OpNotEquals, Value: float64(3)}, true},
		{"greater_than hit", Condition{Attribute: "order_count", Operator: OpGreaterThan, Value: float64(4)}, true},
		{"greater_than miss", Condition{Attribute: "order_count", Operator: OpGreaterThan, Value: float64(5)}, false},
		{"less_than hit", Condition{Attribute: "order_count", Operator: OpLessThan, Value: float64(6)}, true},
		{"string ordering", Condition{Attribute: "tier", Operator: OpGreaterThan, Value: "bronze"}, true},
		{"unknown operator", Condition{Attribute: "order_count", Operator: "contains", Value: float64(5)}, false},
		{"type mismatch ordering", Condition{Attribute: "tier", Operator: OpGreaterThan, Value: float64(1)}, false},
		{"type mismatch equals", Condition{Attribute: "order_count", Operator: OpEquals, Value: "5"}, false},
	}
	for _, tc := range cases {
		cond := tc.cond
		if got := SatisfiesCondition(Rule{Condition: &cond}, ctx); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSatisfiesConditionMixedNumericTypes(t *testing.T) {
	// Contexts built in Go rather than decoded from JSON may carry ints.
	cond := Condition{Attribute: "order_count", Operator: OpEquals, Value: 5}
	if !SatisfiesCondition(Rule{Condition: &cond}, UserContext{"order_count": float64(5)}) {
		t.Fatal("int comparison value should equal float64 attribute")
	}
}

func TestSnakeToCamel(t *testing.T) {
	cases := map[string]string{
		"is_first_time": "isFirstTime",
		"tier":          "tier",
		"order_count":   "orderCount",
		"trailing_":     "trailing_",
		"_leading":      "Leading",
	}
	for in, want := range cases {
		if got := snakeToCamel(in); got != want {
			t.Fatalf("snakeToCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
