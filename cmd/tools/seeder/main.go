package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Writes a starter data set so the API has something to serve on first boot.
// Existing files are left alone unless FORCE=1 is set.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	force := os.Getenv("FORCE") == "1"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	seedFile(filepath.Join(dataDir, "products.json"), products(), force)
	seedFile(filepath.Join(dataDir, "discount_rules.json"), discountRules(), force)

	log.Println("Seeding completed successfully!")
}

func seedFile(path string, v any, force bool) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			log.Printf("Skipping %s (already exists)", path)
			return
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
}

type product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

func products() []product {
	return []product{
		{ID: "prod-001", Name: "Wireless Mouse", Price: 29.99, Category: "electronics", Tags: []string{"accessories"}},
		{ID: "prod-002", Name: "Mechanical Keyboard", Price: 89.90, Category: "electronics", Tags: []string{"accessories"}},
		{ID: "prod-003", Name: "27-inch Monitor", Price: 249.00, Category: "electronics"},
		{ID: "prod-004", Name: "Cotton T-Shirt", Price: 14.50, Category: "fashion", Tags: []string{"apparel"}},
		{ID: "prod-005", Name: "Denim Jacket", Price: 59.95, Category: "fashion", Tags: []string{"apparel", "outerwear"}},
		{ID: "prod-006", Name: "Running Shoes", Price: 74.99, Category: "fashion", Tags: []string{"footwear"}},
		{ID: "prod-007", Name: "Espresso Beans 1kg", Price: 18.00, Category: "grocery"},
		{ID: "prod-008", Name: "Green Tea 50 bags", Price: 6.75, Category: "grocery"},
		{ID: "prod-009", Name: "Hardcover Notebook", Price: 9.99, Category: "stationery"},
		{ID: "prod-010", Name: "Fountain Pen", Price: 32.00, Category: "stationery", Tags: []string{"gift"}},
	}
}

type rule struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Priority  int        `json:"priority"`
	AppliesTo string     `json:"applies_to"`
	Target    string     `json:"target,omitempty"`
	StartDate string     `json:"start_date,omitempty"`
	EndDate   string     `json:"end_date,omitempty"`
	Condition *condition `json:"condition,omitempty"`
	Value     *float64   `json:"value,omitempty"`
	XQuantity *int       `json:"x_quantity,omitempty"`
	YQuantity *int       `json:"y_quantity,omitempty"`
	Threshold *float64   `json:"threshold,omitempty"`
}

type condition struct {
	UserAttribute string `json:"user_attribute"`
	Operator      string `json:"operator"`
	Value         any    `json:"value"`
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func discountRules() []rule {
	return []rule{
		{
			ID: uuid.NewString(), Name: "10% off electronics", Type: "percentage",
			Priority: 5, AppliesTo: "category", Target: "electronics", Value: fp(10),
		},
		{
			ID: uuid.NewString(), Name: "Buy 2 get 1 free notebooks", Type: "buy_x_get_y_free",
			Priority: 8, AppliesTo: "product", Target: "prod-009",
			XQuantity: ip(2), YQuantity: ip(1),
		},
		{
			ID: uuid.NewString(), Name: "15 off orders over 100", Type: "cart_threshold",
			Priority: 10, AppliesTo: "cart", Threshold: fp(100), Value: fp(15),
		},
		{
			ID: uuid.NewString(), Name: "First order 20% off", Type: "percentage",
			Priority: 12, AppliesTo: "cart", Value: fp(20),
			Condition: &condition{UserAttribute: "is_first_time", Operator: "equals", Value: true},
		},
		{
			ID: uuid.NewString(), Name: "Summer fashion sale", Type: "percentage",
			Priority: 6, AppliesTo: "category", Target: "fashion", Value: fp(25),
			StartDate: "2026-06-01", EndDate: "2026-08-31",
		},
	}
}
