package rules

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ClampPercent bounds a percentage rule value to [0, 100]. Out-of-range
// stored values are tolerated and clamped rather than rejected.
func ClampPercent(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(oneHundred) {
		return oneHundred
	}
	return v
}

// PercentageAmount returns base * clamp(value, 0, 100) / 100.
func PercentageAmount(base decimal.Decimal, spec Percentage) decimal.Decimal {
	return base.Mul(ClampPercent(spec.Value)).Div(oneHundred)
}

// FreeUnits returns how many of qty purchased units come free under the
// rule. A partial trailing set yields only the units bought past its paid
// tier: with X=1, Y=2 a quantity of 2 grants one free unit even though the
// second set never completes.
func FreeUnits(spec BuyXGetYFree, qty int64) int64 {
	if spec.X <= 0 || spec.Y <= 0 || qty < spec.X {
		return 0
	}
	setSize := spec.X + spec.Y
	fullSets := qty / setSize
	extraFree := qty%setSize - spec.X
	if extraFree < 0 {
		extraFree = 0
	}
	return fullSets*spec.Y + extraFree
}

// ProductAmount computes the discount a product- or category-scoped rule
// grants against one merged line item. Rule kinds that do not apply at item
// level yield zero.
func ProductAmount(r Rule, unitPrice decimal.Decimal, qty int64) decimal.Decimal {
	switch spec := r.Spec.(type) {
	case Percentage:
		return PercentageAmount(unitPrice.Mul(decimal.NewFromInt(qty)), spec)
	case BuyXGetYFree:
		return unitPrice.Mul(decimal.NewFromInt(FreeUnits(spec, qty)))
	default:
		return decimal.Zero
	}
}

// CartAmount computes the discount a cart-scoped rule grants against the
// accumulated subtotal. The threshold grant is flat, not proportional.
func CartAmount(r Rule, subtotal decimal.Decimal) decimal.Decimal {
	switch spec := r.Spec.(type) {
	case Percentage:
		return PercentageAmount(subtotal, spec)
	case CartThreshold:
		if subtotal.GreaterThanOrEqual(spec.Threshold) {
			return spec.Value
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
