package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
)

// Repository persists the order ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order with its item snapshots.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByExternalID loads an order by its gateway order id.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "external_id = ?", externalID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders most recent first, optionally filtered by payment
// status.
func (r *Repository) List(ctx context.Context, status *enums.PaymentStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != nil {
		query = query.Where("payment_status = ?", status.String())
	}

	var out []models.Order
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetGatewayOrder attaches the gateway order id and raw payload after the
// order row exists.
func (r *Repository) SetGatewayOrder(ctx context.Context, id uuid.UUID, externalID, payload string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_id":     externalID,
			"gateway_payload": payload,
		}).Error
}

// TransitionPayment applies a payment transition only while the order is
// still pending. It reports whether the row changed.
func (r *Repository) TransitionPayment(ctx context.Context, id uuid.UUID, payment enums.PaymentStatus, status enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusPending.String()).
		Updates(map[string]any{
			"payment_status": payment.String(),
			"status":         status.String(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendGatewayPayload stores the latest gateway payload for the order.
func (r *Repository) AppendGatewayPayload(ctx context.Context, id uuid.UUID, payload string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("gateway_payload", payload).Error
}

// RecordWebhookEvent writes an audit row for a gateway delivery.
func (r *Repository) RecordWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
