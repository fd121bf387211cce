package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neevdiamonds/storefront-backend/pkg/enums"
)

// Order is the ledger row created once at checkout. Total is computed at
// creation time and never recomputed; payment_status and status move only
// through the transition set in internal/orders.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ExternalID     *string             `gorm:"column:external_id;index"`
	CustomerName   string              `gorm:"column:customer_name;not null"`
	CustomerEmail  string              `gorm:"column:customer_email"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null"`
	Address        string              `gorm:"column:address;not null"`
	Premium        bool                `gorm:"column:premium;not null;default:false"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'created'"`
	GatewayPayload *string             `gorm:"column:gateway_payload"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when the caller did not supply one.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
