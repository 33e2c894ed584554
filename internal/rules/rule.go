package rules

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the discount calculation a rule performs.
type Kind string

const (
	KindPercentage    Kind = "percentage"
	KindBuyXGetYFree  Kind = "buy_x_get_y_free"
	KindCartThreshold Kind = "cart_threshold"
)

// Scope names what a rule targets: a single product, a category, or the
// whole cart.
type Scope string

const (
	ScopeProduct  Scope = "product"
	ScopeCategory Scope = "category"
	ScopeCart     Scope = "cart"
)

// Operator names a supported condition comparison.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Condition restricts a rule to users whose context attribute compares
// against Value under Operator.
type Condition struct {
	Attribute string   `json:"user_attribute"`
	Operator  Operator `json:"operator"`
	Value     any      `json:"value"`
}

// Rule is one promotional discount rule. Kind determines which Spec variant
// is carried; the variants are closed so illegal field combinations cannot
// be represented.
type Rule struct {
	ID        string
	Name      string
	Kind      Kind
	Priority  int
	Scope     Scope
	Target    string
	StartsAt  *time.Time
	EndsAt    *time.Time
	Condition *Condition
	Spec      Spec
}

// Spec is the kind-specific payload of a rule.
type Spec interface {
	kind() Kind
}

// Percentage takes a percentage off the base amount. Values outside [0,100]
// are clamped at evaluation time, not rejected here.
type Percentage struct {
	Value decimal.Decimal
}

func (Percentage) kind() Kind { return KindPercentage }

// BuyXGetYFree grants Y free units for every X paid units.
type BuyXGetYFree struct {
	X int64
	Y int64
}

func (BuyXGetYFree) kind() Kind { return KindBuyXGetYFree }

// CartThreshold grants a flat Value once the cart subtotal reaches Threshold.
type CartThreshold struct {
	Threshold decimal.Decimal
	Value     decimal.Decimal
}

func (CartThreshold) kind() Kind { return KindCartThreshold }

// ruleWire is the flat JSON shape rules are stored in.
type ruleWire struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      Kind             `json:"type"`
	Priority  int              `json:"priority"`
	AppliesTo Scope            `json:"applies_to"`
	Target    string           `json:"target,omitempty"`
	StartDate string           `json:"start_date,omitempty"`
	EndDate   string           `json:"end_date,omitempty"`
	Condition *Condition       `json:"condition,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
	XQuantity *int64           `json:"x_quantity,omitempty"`
	YQuantity *int64           `json:"y_quantity,omitempty"`
	Threshold *decimal.Decimal `json:"threshold,omitempty"`
}

// UnmarshalJSON decodes the stored flat shape and dispatches on the type tag.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var w ruleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Rule{
		ID:        w.ID,
		Name:      w.Name,
		Kind:      w.Type,
		Priority:  w.Priority,
		Scope:     w.AppliesTo,
		Target:    w.Target,
		Condition: w.Condition,
	}
	var err error
	if out.StartsAt, err = parseRuleTime(w.StartDate); err != nil {
		return fmt.Errorf("rule %s: start_date: %w", w.ID, err)
	}
	if out.EndsAt, err = parseRuleTime(w.EndDate); err != nil {
		return fmt.Errorf("rule %s: end_date: %w", w.ID, err)
	}
	switch w.Type {
	case KindPercentage:
		if w.Value == nil {
			return fmt.Errorf("rule %s: percentage rule requires value", w.ID)
		}
		out.Spec = Percentage{Value: *w.Value}
	case KindBuyXGetYFree:
		if w.XQuantity == nil || w.YQuantity == nil {
			return fmt.Errorf("rule %s: buy_x_get_y_free rule requires x_quantity and y_quantity", w.ID)
		}
		out.Spec = BuyXGetYFree{X: *w.XQuantity, Y: *w.YQuantity}
	case KindCartThreshold:
		if w.Threshold == nil || w.Value == nil {
			return fmt.Errorf("rule %s: cart_threshold rule requires threshold and value", w.ID)
		}
		out.Spec = CartThreshold{Threshold: *w.Threshold, Value: *w.Value}
	default:
		return fmt.Errorf("rule %s: unknown rule type %q", w.ID, w.Type)
	}
	*r = out
	return nil
}

// MarshalJSON encodes the rule back into the stored flat shape.
func (r Rule) MarshalJSON() ([]byte, error) {
	w := ruleWire{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Kind,
		Priority:  r.Priority,
		AppliesTo: r.Scope,
		Target:    r.Target,
		Condition: r.Condition,
	}
	if r.StartsAt != nil {
		w.StartDate = r.StartsAt.Format(time.RFC3339)
	}
	if r.EndsAt != nil {
		w.EndDate = r.EndsAt.Format(time.RFC3339)
	}
	switch spec := r.Spec.(type) {
	case Percentage:
		v := spec.Value
		w.Value = &v
	case BuyXGetYFree:
		x, y := spec.X, spec.Y
		w.XQuantity = &x
		w.YQuantity = &y
	case CartThreshold:
		th, v := spec.Threshold, spec.Value
		w.Threshold = &th
		w.Value = &v
	default:
		return nil, fmt.Errorf("rule %s: missing spec", r.ID)
	}
	return json.Marshal(w)
}

// parseRuleTime accepts RFC 3339 timestamps and bare dates.
func parseRuleTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", value)
}
