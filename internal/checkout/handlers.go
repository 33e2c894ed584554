package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/discount-api/internal/common"
	"github.com/noah-isme/discount-api/internal/obs"
	"github.com/noah-isme/discount-api/internal/rules"
)

// Request is the wire shape of a checkout computation request.
type Request struct {
	Items       []LineItem        `json:"items" validate:"omitempty,dive"`
	UserContext rules.UserContext `json:"userContext"`
}

// Handler exposes the checkout endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// Checkout handles POST /api/v1/checkout/cart. Business anomalies come back
// inside the result envelope; only provider failure maps to a 500.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "checkout service not configured")
		return
	}
	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.Fail(w, http.StatusBadRequest, "Bad JSON payload")
		return
	}
	if msg := h.validate(body); msg != "" {
		common.Fail(w, http.StatusBadRequest, "Validation error: "+msg)
		return
	}

	result, err := h.Svc.Compute(r.Context(), body.Items, body.UserContext)
	if err != nil {
		obs.ObserveCheckout("error")
		h.Logger.Error().Err(err).Msg("compute checkout")
		common.Fail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	obs.ObserveCheckoutWarnings(len(result.Data.Warnings))
	status := http.StatusOK
	if result.Success {
		obs.ObserveCheckout("ok")
	} else {
		obs.ObserveCheckout("rejected")
		status = http.StatusBadRequest
	}
	for _, d := range result.Data.AppliedDiscounts {
		obs.ObserveDiscountApplied(string(d.Type))
	}
	common.JSON(w, status, result)
}

// validate runs structural validation; quantity semantics beyond presence
// stay with the aggregator, which turns them into warnings.
func (h *Handler) validate(body Request) string {
	if body.Items == nil {
		return "items is required"
	}
	if body.UserContext == nil {
		return "userContext is required"
	}
	if h.Validate == nil {
		return ""
	}
	if err := h.Validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return strings.Join(msgs, ", ")
		}
		return err.Error()
	}
	return ""
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
