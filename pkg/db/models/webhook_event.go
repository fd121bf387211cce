package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookEvent is the audit record for gateway deliveries that did not
// resolve to an order transition: unknown kinds, unmatched remote ids,
// and malformed payloads. Matched captures are also recorded here with
// the order id set.
type WebhookEvent struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Event     string     `gorm:"column:event;not null"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Payload   string     `gorm:"column:payload"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an id when the caller did not supply one.
func (w *WebhookEvent) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
