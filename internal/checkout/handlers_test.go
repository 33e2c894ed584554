package checkout_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/discount-api/internal/checkout"
	"github.com/noah-isme/discount-api/internal/rules"
)

var errDataDown = errors.New("catalog: data unavailable")

func newHandler(f *fakeSources) *checkout.Handler {
	return &checkout.Handler{
		Svc:      newService(f),
		Validate: validator.New(),
		Logger:   zerolog.Nop(),
	}
}

func doCheckout(t *testing.T, h *checkout.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)
	return rec
}

func TestCheckoutHandlerHappyPath(t *testing.T) {
	f := &fakeSources{
		products: defaultProducts(),
		rules: []rules.Rule{{
			ID: "r1", Name: "10% off electronics", Kind: rules.KindPercentage,
			Priority: 5, Scope: rules.ScopeCategory, Target: "electronics",
			Spec: rules.Percentage{Value: dec("10")},
		}},
	}
	rec := doCheckout(t, newHandler(f), `{"items":[{"productId":"p1","quantity":2}],"userContext":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.Equal(t, 200.0, out.Data.Subtotal)
	require.Equal(t, 180.0, out.Data.Total)
	require.Len(t, out.Data.AppliedDiscounts, 1)
	require.Equal(t, "r1", out.Data.AppliedDiscounts[0].RuleID)
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	rec := doCheckout(t, newHandler(&fakeSources{products: defaultProducts()}),
		`{"items":[],"userContext":{}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.False(t, out.Success)
	require.Equal(t, []string{"No items"}, out.Data.Warnings)
	// empty collections still render as arrays, not null
	require.Contains(t, rec.Body.String(), `"appliedDiscounts":[]`)
}

func TestCheckoutHandlerMissingProduct(t *testing.T) {
	rec := doCheckout(t, newHandler(&fakeSources{products: defaultProducts()}),
		`{"items":[{"productId":"ghost","quantity":1}],"userContext":{}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.False(t, out.Success)
	require.Contains(t, out.Data.Warnings[0], "aborting checkout")
}

func TestCheckoutHandlerBadJSON(t *testing.T) {
	rec := doCheckout(t, newHandler(&fakeSources{products: defaultProducts()}), `{"items": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Bad JSON payload")
}

func TestCheckoutHandlerValidation(t *testing.T) {
	h := newHandler(&fakeSources{products: defaultProducts()})

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing items", `{"userContext":{}}`, "items is required"},
		{"missing user context", `{"items":[{"productId":"p1","quantity":1}]}`, "userContext is required"},
		{"blank product id", `{"items":[{"productId":"","quantity":1}],"userContext":{}}`, "ProductID is required"},
		{"zero quantity", `{"items":[{"productId":"p1","quantity":0}],"userContext":{}}`, "Quantity is required"},
		{"negative quantity", `{"items":[{"productId":"p1","quantity":-1}],"userContext":{}}`, "Quantity must be greater than 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doCheckout(t, h, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "Validation error")
			require.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestCheckoutHandlerProviderFailure(t *testing.T) {
	h := newHandler(&fakeSources{err: errDataDown})
	rec := doCheckout(t, h, `{"items":[{"productId":"p1","quantity":1}],"userContext":{}}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Internal Server Error")
	// internal detail never leaks to the client
	require.NotContains(t, rec.Body.String(), errDataDown.Error())
}
