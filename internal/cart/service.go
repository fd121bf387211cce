package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes session cart operations.
type Service interface {
	View(ctx context.Context, sessionID string) (*Quote, error)
	Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*Quote, error)
	SetQty(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*Quote, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*Quote, error)
	SetPremium(ctx context.Context, sessionID string, premium bool) (*Quote, error)
	Clear(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID string) (*State, error)
}

type service struct {
	store     *Store
	products  productLoader
	surcharge decimal.Decimal
}

// NewService constructs a cart service. surcharge is the flat premium
// packaging fee applied once per order.
func NewService(store *Store, products productLoader, surcharge decimal.Decimal) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if surcharge.IsNegative() {
		return nil, fmt.Errorf("premium surcharge cannot be negative")
	}
	return &service{store: store, products: products, surcharge: surcharge}, nil
}

func (s *service) View(ctx context.Context, sessionID string) (*Quote, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return s.quote(ctx, state)
}

func (s *service) Add(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*Quote, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	next := state.Items[productID.String()] + qty
	if next > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"product_id": productID.String(), "stock": product.Stock})
	}
	state.Items[productID.String()] = next

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return s.quote(ctx, state)
}

// SetQty replaces the quantity for a line. Zero removes the line.
func (s *service) SetQty(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*Quote, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if qty == 0 {
		return s.Remove(ctx, sessionID, productID)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"product_id": productID.String(), "stock": product.Stock})
	}

	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	state.Items[productID.String()] = qty

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return s.quote(ctx, state)
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*Quote, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	delete(state.Items, productID.String())

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return s.quote(ctx, state)
}

func (s *service) SetPremium(ctx context.Context, sessionID string, premium bool) (*Quote, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	state.Premium = premium

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return s.quote(ctx, state)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

// Snapshot returns the raw cart state for checkout.
func (s *service) Snapshot(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return state, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) quote(ctx context.Context, state *State) (*Quote, error) {
	products := make(map[string]*models.Product, len(state.Items))
	for id := range state.Items {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		product, err := s.products.FindByID(ctx, parsed)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
		}
		products[id] = product
	}
	quote := BuildQuote(state, products, s.surcharge)
	return &quote, nil
}
