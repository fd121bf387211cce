package controllers

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	cartsvc "github.com/neevdiamonds/storefront-backend/internal/cart"
	checkoutsvc "github.com/neevdiamonds/storefront-backend/internal/checkout"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	"github.com/neevdiamonds/storefront-backend/pkg/metrics"
)

// CheckoutView serves the priced cart the checkout page renders.
func CheckoutView(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := carts.View(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type checkoutRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"required,min=7"`
	Address       string `json:"address" validate:"required,min=5"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card upi"`
}

// CheckoutSubmit turns the session cart into an order.
func CheckoutSubmit(svc checkoutsvc.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Checkout(r.Context(), sessionID, checkoutsvc.Input{
			CustomerName:  payload.Name,
			CustomerEmail: payload.Email,
			CustomerPhone: payload.Phone,
			Address:       payload.Address,
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncOrder(method.String())
		if result.AutoConfirmed {
			m.IncPaymentTransition("paid")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
