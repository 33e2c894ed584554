package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/discount-api/internal/catalog"
	"github.com/noah-isme/discount-api/internal/rules"
)

// ProductSource supplies immutable product reference data. Absence of a
// product is a normal outcome; only an unreadable store yields an error.
type ProductSource interface {
	ProductByID(ctx context.Context, id string) (catalog.Product, bool, error)
}

// RuleSource supplies the full discount rule set.
type RuleSource interface {
	DiscountRules(ctx context.Context) ([]rules.Rule, error)
}

// LineItem is one requested cart entry. Quantity is carried as float64 so a
// fractional value survives decoding and can be rejected with a warning
// instead of a decode error.
type LineItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

// AppliedToCart marks a discount that applies to the cart as a whole rather
// than to a single product.
const AppliedToCart = "cart"

// AppliedDiscount describes the winning discount inside a result.
type AppliedDiscount struct {
	RuleID         string     `json:"ruleId"`
	RuleName       string     `json:"ruleName"`
	DiscountAmount float64    `json:"discountAmount"`
	AppliedTo      string     `json:"appliedTo"`
	Type           rules.Kind `json:"type"`
	Value          *float64   `json:"value,omitempty"`
}

// ResultData carries the monetary breakdown of one checkout computation.
type ResultData struct {
	Subtotal         float64           `json:"subtotal"`
	AppliedDiscounts []AppliedDiscount `json:"appliedDiscounts"`
	Total            float64           `json:"total"`
	Warnings         []string          `json:"warnings"`
}

// Result is the outcome of one checkout computation. Success is false only
// for the empty-cart and missing-product abort paths; every other business
// anomaly is reduced to warnings.
type Result struct {
	Success bool       `json:"success"`
	Data    ResultData `json:"data"`
}

// Service runs the checkout aggregation pipeline. Both sources are
// read-only; a computation holds no shared mutable state, so concurrent
// calls do not interfere.
type Service struct {
	Products ProductSource
	Rules    RuleSource
	// Now overrides the evaluation instant; nil means time.Now.
	Now func() time.Time
}

// candidate is a computed, positive discount amount produced by one
// eligible rule, before winner selection. Computation-local only.
type candidate struct {
	rule      rules.Rule
	amount    decimal.Decimal
	appliedTo string
}

// Compute resolves applicable discount rules for the given cart and user
// context and returns the monetary breakdown. It never errors for
// business-rule anomalies; only a failing data provider propagates out.
func (s *Service) Compute(ctx context.Context, items []LineItem, user rules.UserContext) (Result, error) {
	res := newResult()
	if s == nil || s.Products == nil || s.Rules == nil {
		return res, errors.New("checkout service not configured")
	}
	if len(items) == 0 {
		res.Data.Warnings = append(res.Data.Warnings, "No items")
		return res, nil
	}

	allRules, err := s.Rules.DiscountRules(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch discount rules: %w", err)
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	subtotal := decimal.Zero
	var candidates []candidate

	for _, item := range mergeDuplicates(items) {
		if item.Quantity <= 0 || item.Quantity != math.Trunc(item.Quantity) {
			res.Data.Warnings = append(res.Data.Warnings,
				fmt.Sprintf("Invalid quantity (%s) for product %s; skipping.", formatQty(item.Quantity), item.ProductID))
			continue
		}
		qty := int64(item.Quantity)

		product, ok, err := s.Products.ProductByID(ctx, item.ProductID)
		if err != nil {
			return res, fmt.Errorf("fetch product %s: %w", item.ProductID, err)
		}
		if !ok {
			// Deliberate fail-fast: the whole checkout aborts, keeping the
			// partial subtotal accumulated so far.
			res.Data.Warnings = append(res.Data.Warnings,
				fmt.Sprintf("Product with ID %s not found; aborting checkout.", item.ProductID))
			res.Data.Subtotal = subtotal.InexactFloat64()
			return res, nil
		}
		if product.Price == nil || product.Price.IsNegative() {
			res.Data.Warnings = append(res.Data.Warnings,
				fmt.Sprintf("Negative or missing price for product %s; skipping.", product.ID))
			continue
		}
		price := *product.Price
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(qty)))

		applicable := rules.ForProduct(allRules, product.ID, product.Category, user, now)
		for _, r := range rules.SortByPriority(applicable) {
			amount := rules.ProductAmount(r, price, qty)
			if amount.IsPositive() {
				candidates = append(candidates, candidate{rule: r, amount: amount, appliedTo: product.ID})
			}
		}
	}

	for _, r := range rules.SortByPriority(rules.ForCart(allRules, user, now)) {
		amount := rules.CartAmount(r, subtotal)
		if amount.IsPositive() {
			candidates = append(candidates, candidate{rule: r, amount: amount, appliedTo: AppliedToCart})
		}
	}

	applied := selectWinner(candidates, &res)
	finalize(&res, subtotal, applied)
	res.Success = true
	return res, nil
}

// selectWinner applies the single-discount policy: the highest-priority
// candidate wins; on a tie the first one encountered in collection order is
// kept and a warning names the tie.
func selectWinner(candidates []candidate, res *Result) []candidate {
	if len(candidates) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].rule.Priority > candidates[best].rule.Priority {
			best = i
		}
	}
	for i, c := range candidates {
		if i != best && c.rule.Priority == candidates[best].rule.Priority {
			res.Data.Warnings = append(res.Data.Warnings,
				fmt.Sprintf("Multiple rules at priority %d; applied: %s",
					candidates[best].rule.Priority, candidates[best].rule.Name))
			break
		}
	}
	return candidates[best : best+1]
}

// finalize computes total = max(0, subtotal - sum(applied)) on unrounded
// amounts, then rounds everything to 2 decimals, half away from zero.
func finalize(res *Result, subtotal decimal.Decimal, applied []candidate) {
	totalDiscount := decimal.Zero
	for _, c := range applied {
		totalDiscount = totalDiscount.Add(c.amount)
	}
	total := subtotal.Sub(totalDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	for _, c := range applied {
		res.Data.AppliedDiscounts = append(res.Data.AppliedDiscounts, AppliedDiscount{
			RuleID:         c.rule.ID,
			RuleName:       c.rule.Name,
			DiscountAmount: round2(c.amount),
			AppliedTo:      c.appliedTo,
			Type:           c.rule.Kind,
			Value:          ruleValue(c.rule),
		})
	}
	res.Data.Subtotal = round2(subtotal)
	res.Data.Total = round2(total)
}

// ruleValue extracts the user-facing rule value for the response: the
// percentage or the flat grant. Buy-x-get-y rules have none.
func ruleValue(r rules.Rule) *float64 {
	switch spec := r.Spec.(type) {
	case rules.Percentage:
		v := spec.Value.InexactFloat64()
		return &v
	case rules.CartThreshold:
		v := spec.Value.InexactFloat64()
		return &v
	default:
		return nil
	}
}

// mergeDuplicates collapses line items sharing a product id into one entry
// with summed quantity, keeping first-occurrence order.
func mergeDuplicates(items []LineItem) []LineItem {
	index := make(map[string]int, len(items))
	merged := make([]LineItem, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

func newResult() Result {
	return Result{
		Data: ResultData{
			AppliedDiscounts: []AppliedDiscount{},
			Warnings:         []string{},
		},
	}
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
