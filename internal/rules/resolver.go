package rules

import (
	"sort"
	"time"
)

// ForProduct filters rules down to those eligible for the user at now that
// target the product directly or through its category.
func ForProduct(all []Rule, productID, category string, user UserContext, now time.Time) []Rule {
	var out []Rule
	for _, r := range all {
		if !ActiveAt(r, now) || !SatisfiesCondition(r, user) {
			continue
		}
		if (r.Scope == ScopeProduct && r.Target == productID) ||
			(r.Scope == ScopeCategory && r.Target == category) {
			out = append(out, r)
		}
	}
	return out
}

// ForCart filters rules down to eligible cart-scoped ones.
func ForCart(all []Rule, user UserContext, now time.Time) []Rule {
	var out []Rule
	for _, r := range all {
		if r.Scope == ScopeCart && ActiveAt(r, now) && SatisfiesCondition(r, user) {
			out = append(out, r)
		}
	}
	return out
}

// SortByPriority returns a copy ordered by priority descending. The sort is
// stable; equal priorities keep their input order, the tie itself is
// resolved later during winner selection.
func SortByPriority(in []Rule) []Rule {
	out := make([]Rule, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
