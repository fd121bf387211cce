package controllers

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	checkoutsvc "github.com/neevdiamonds/storefront-backend/internal/checkout"
	ordersvc "github.com/neevdiamonds/storefront-backend/internal/orders"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

func orderStatusMessage(paymentStatus string) string {
	switch enums.PaymentStatus(paymentStatus) {
	case enums.PaymentStatusPaid:
		return "Payment received. Your order is confirmed."
	case enums.PaymentStatusRejected:
		return "Payment was rejected. Please contact support."
	default:
		return "Payment pending. We will confirm your order shortly."
	}
}

type orderViewResponse struct {
	Order   *ordersvc.OrderDTO `json:"order"`
	Message string             `json:"message"`
}

// OrderGet serves the customer-facing order status page data.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderViewResponse{
			Order:   order,
			Message: orderStatusMessage(order.PaymentStatus),
		})
	}
}

type upiViewResponse struct {
	Order     *ordersvc.OrderDTO `json:"order"`
	UPIIntent string             `json:"upi_intent"`
	Message   string             `json:"message"`
}

// UPIView serves the UPI payment page data: the order plus its deep link.
func UPIView(svc ordersvc.Service, upiCfg config.UPIConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, upiViewResponse{
			Order:     order,
			UPIIntent: checkoutsvc.UPIIntent(upiCfg, order.Total, order.ID),
			Message:   orderStatusMessage(order.PaymentStatus),
		})
	}
}
