package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/noah-isme/discount-api/internal/obs"
	"github.com/noah-isme/discount-api/internal/rules"
)

// ErrUnavailable reports that the backing data files could not be read or
// parsed. It is the only error kind the store produces; callers translate
// it to their own failure signal.
var ErrUnavailable = errors.New("catalog: data unavailable")

const (
	productsFile = "products.json"
	rulesFile    = "discount_rules.json"
)

// Store is a read-only provider for products and discount rules backed by
// two static JSON files. Data is loaded once on first use and reused for
// the lifetime of the process; it is never mutated after load, so the store
// is safe for concurrent readers.
type Store struct {
	dir string

	once     sync.Once
	loadErr  error
	products map[string]Product
	rules    []rules.Rule
}

// NewStore returns a store reading from dir. Nothing is loaded until the
// first lookup so a missing data directory surfaces as ErrUnavailable at
// request time rather than at construction.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) load() {
	s.once.Do(func() {
		defer func() {
			result := "ok"
			if s.loadErr != nil {
				result = "error"
			}
			obs.ObserveCatalogLoad(result)
		}()

		var products []Product
		if err := readJSON(filepath.Join(s.dir, productsFile), &products); err != nil {
			s.loadErr = err
			return
		}
		var ruleSet []rules.Rule
		if err := readJSON(filepath.Join(s.dir, rulesFile), &ruleSet); err != nil {
			s.loadErr = err
			return
		}
		byID := make(map[string]Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		s.products = byID
		s.rules = ruleSet
	})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	return nil
}

// ProductByID returns the product when present. Absence is a normal,
// non-error outcome.
func (s *Store) ProductByID(_ context.Context, id string) (Product, bool, error) {
	s.load()
	if s.loadErr != nil {
		return Product{}, false, s.loadErr
	}
	p, ok := s.products[id]
	return p, ok, nil
}

// DiscountRules returns every configured discount rule. The returned slice
// is shared; callers must not mutate it.
func (s *Store) DiscountRules(_ context.Context) ([]rules.Rule, error) {
	s.load()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.rules, nil
}

// Ping forces a load and reports whether the data files are usable. Used by
// readiness probes and startup warm-up.
func (s *Store) Ping(_ context.Context) error {
	s.load()
	return s.loadErr
}
