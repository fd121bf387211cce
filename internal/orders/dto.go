package orders

import (
	"time"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

// OrderItemDTO is a priced line snapshot inside an order.
type OrderItemDTO struct {
	ProductID *string `json:"product_id"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	Qty       int     `json:"qty"`
	LineTotal string  `json:"line_total"`
}

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID            string         `json:"id"`
	ExternalID    *string        `json:"external_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	Address       string         `json:"address"`
	Premium       bool           `json:"premium"`
	Total         string         `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	PaymentStatus string         `json:"payment_status"`
	Status        string         `json:"status"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toOrderDTO(o *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		var productID *string
		if item.ProductID != nil {
			s := item.ProductID.String()
			productID = &s
		}
		items = append(items, OrderItemDTO{
			ProductID: productID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Qty:       item.Qty,
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}

	return &OrderDTO{
		ID:            o.ID.String(),
		ExternalID:    o.ExternalID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Address:       o.Address,
		Premium:       o.Premium,
		Total:         o.Total.StringFixed(2),
		PaymentMethod: o.PaymentMethod.String(),
		PaymentStatus: o.PaymentStatus.String(),
		Status:        o.Status.String(),
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderDTOs(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *toOrderDTO(&list[i]))
	}
	return out
}
