package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is immutable reference data owned by the catalog files. Price is
// a pointer because the source data may omit it; the checkout pipeline
// treats a missing or negative price as a per-item anomaly, not an error.
type Product struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category string           `json:"category"`
	Tags     []string         `json:"tags"`
}
