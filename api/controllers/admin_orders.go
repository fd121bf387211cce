package controllers

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	catalogsvc "github.com/neevdiamonds/storefront-backend/internal/catalog"
	ordersvc "github.com/neevdiamonds/storefront-backend/internal/orders"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
	"github.com/neevdiamonds/storefront-backend/pkg/metrics"
)

type adminDashboardResponse struct {
	Orders   []ordersvc.OrderDTO     `json:"orders"`
	Products []catalogsvc.ProductDTO `json:"products"`
}

// AdminDashboard serves the dashboard data: all orders newest first plus
// the catalog for inline editing. A status query filters orders.
func AdminDashboard(orderSvc ordersvc.Service, catalogSvc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.PaymentStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParsePaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		orders, err := orderSvc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := catalogSvc.List(r.Context(), "", "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, adminDashboardResponse{Orders: orders, Products: products})
	}
}

// AdminOrderMarkPaid confirms a pending order's payment by hand.
func AdminOrderMarkPaid(svc ordersvc.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MarkPaid(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncPaymentTransition(order.PaymentStatus)
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderReject rejects a pending order's payment. Stock is not
// restored.
func AdminOrderReject(svc ordersvc.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Reject(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncPaymentTransition(order.PaymentStatus)
		responses.WriteSuccess(w, order)
	}
}
