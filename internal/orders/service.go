package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neevdiamonds/storefront-backend/internal/catalog"
	"github.com/neevdiamonds/storefront-backend/pkg/db"
	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

// Service owns the order ledger: creation with stock reservation, payment
// transitions, and gateway bookkeeping.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, status *enums.PaymentStatus) ([]OrderDTO, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	MarkPaidByExternalID(ctx context.Context, externalID, payload string) (*OrderDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	AttachGatewayOrder(ctx context.Context, id uuid.UUID, externalID, payload string) error
	RecordWebhookEvent(ctx context.Context, event, payload string, orderID *uuid.UUID) error
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateOrderInput is the validated checkout payload.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	PaymentMethod enums.PaymentMethod
	Premium       bool
	Lines         []LineInput
}

type service struct {
	repo      *Repository
	catalog   *catalog.Repository
	dbClient  *db.Client
	logg      *logger.Logger
	surcharge decimal.Decimal
}

// NewService constructs the order service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, dbClient *db.Client, logg *logger.Logger, surcharge decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if surcharge.IsNegative() {
		return nil, fmt.Errorf("premium surcharge cannot be negative")
	}
	return &service{
		repo:      repo,
		catalog:   catalogRepo,
		dbClient:  dbClient,
		logg:      logg,
		surcharge: surcharge,
	}, nil
}

// Create reserves stock and writes the order with its item snapshots in
// one transaction. Lines whose product vanished are dropped like the cart
// drops them; a line the catalog cannot cover fails the whole order and
// releases everything.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	var created *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		catalogTx := s.catalog.WithTx(tx)
		repoTx := s.repo.WithTx(tx)

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Lines))

		for _, line := range input.Lines {
			if line.Qty <= 0 {
				continue
			}
			product, err := catalogTx.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// product deleted since the cart was built
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
			}

			ok, err := catalogTx.DecrementStock(ctx, product.ID, line.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": product.ID.String(),
						"name":       product.Name,
						"requested":  line.Qty,
						"stock":      product.Stock,
					})
			}

			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID: &productID,
				Name:      product.Name,
				Price:     product.Price,
				Qty:       line.Qty,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		}

		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
		}
		if input.Premium {
			total = total.Add(s.surcharge)
		}

		order := &models.Order{
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerEmail: strings.TrimSpace(input.CustomerEmail),
			CustomerPhone: strings.TrimSpace(input.CustomerPhone),
			Address:       strings.TrimSpace(input.Address),
			Premium:       input.Premium,
			Total:         total,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: enums.PaymentStatusPending,
			Status:        enums.OrderStatusCreated,
			Items:         items,
		}
		result, err := repoTx.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, created.ID.String())
	s.logg.Info(ctx, "order created")
	return toOrderDTO(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, status *enums.PaymentStatus) ([]OrderDTO, error) {
	list, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(list), nil
}

// MarkPaid confirms payment. Re-confirming a paid order is a no-op; a
// rejected order stays rejected.
func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, id, enums.PaymentStatusPaid, enums.OrderStatusConfirmed, "")
}

// Reject marks payment as rejected. Stock reserved at creation is not
// restored.
func (s *service) Reject(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.transition(ctx, id, enums.PaymentStatusRejected, enums.OrderStatusRejected, "")
}

// MarkPaidByExternalID resolves the gateway order id and confirms payment,
// storing the gateway payload alongside.
func (s *service) MarkPaidByExternalID(ctx context.Context, externalID, payload string) (*OrderDTO, error) {
	order, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order for gateway id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving gateway order")
	}
	return s.transition(ctx, order.ID, enums.PaymentStatusPaid, enums.OrderStatusConfirmed, payload)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, payment enums.PaymentStatus, status enums.OrderStatus, payload string) (*OrderDTO, error) {
	var after *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		order, err := repoTx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}

		if order.PaymentStatus.IsTerminal() {
			// replayed confirmation or late reject: keep the first outcome
			after = order
			return nil
		}

		changed, err := repoTx.TransitionPayment(ctx, id, payment, status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transitioning order")
		}
		if changed && payload != "" {
			if err := repoTx.AppendGatewayPayload(ctx, id, payload); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing gateway payload")
			}
		}

		order, err = repoTx.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading order")
		}
		after = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, id.String())
	s.logg.Info(ctx, fmt.Sprintf("order payment %s", after.PaymentStatus))
	return toOrderDTO(after), nil
}

// AttachGatewayOrder records the gateway order id after checkout.
func (s *service) AttachGatewayOrder(ctx context.Context, id uuid.UUID, externalID, payload string) error {
	if err := s.repo.SetGatewayOrder(ctx, id, externalID, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attaching gateway order")
	}
	return nil
}

// RecordWebhookEvent writes an audit row for a gateway delivery.
func (s *service) RecordWebhookEvent(ctx context.Context, event, payload string, orderID *uuid.UUID) error {
	row := &models.WebhookEvent{
		Event:   event,
		OrderID: orderID,
		Payload: payload,
	}
	if err := s.repo.RecordWebhookEvent(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording webhook event")
	}
	return nil
}
