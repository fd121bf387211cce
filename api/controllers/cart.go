package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/neevdiamonds/storefront-backend/api/middleware"
	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	cartsvc "github.com/neevdiamonds/storefront-backend/internal/cart"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

func sessionIDOrError(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session missing")
	}
	return sessionID, nil
}

type cartAddRequest struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

// CartAdd puts qty more of a product into the session cart.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := cartAddRequest{Qty: 1}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		quote, err := svc.Add(r.Context(), sessionID, productID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type cartUpdateRequest struct {
	Items   map[string]int `json:"items"`
	Premium bool           `json:"premium"`
}

// CartUpdate replaces line quantities and the premium flag in one shot.
// Quantities of zero or less drop the line.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		for raw, qty := range payload.Items {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
						WithDetails(map[string]any{"product_id": raw}))
				return
			}
			if _, err := svc.SetQty(r.Context(), sessionID, productID, qty); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		quote, err := svc.SetPremium(r.Context(), sessionID, payload.Premium)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CartRemove drops one product line from the cart.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
