package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neevdiamonds/storefront-backend/internal/cart"
	"github.com/neevdiamonds/storefront-backend/internal/orders"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/gateway/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

type gatewayClient interface {
	Configured() bool
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*razorpay.GatewayOrder, error)
}

// Input is the validated checkout form.
type Input struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	PaymentMethod enums.PaymentMethod
}

// Result is what the storefront needs to finish the payment step.
type Result struct {
	Order          *orders.OrderDTO `json:"order"`
	GatewayOrderID *string          `json:"gateway_order_id"`
	GatewayKeyID   string           `json:"gateway_key_id,omitempty"`
	MockGateway    bool             `json:"mock_gateway"`
	UPIIntent      string           `json:"upi_intent,omitempty"`
	AutoConfirmed  bool             `json:"auto_confirmed"`
}

// Service turns a session cart into a pending order and hands off to the
// payment step.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input Input) (*Result, error)
}

type service struct {
	carts   cart.Service
	orders  orders.Service
	gateway gatewayClient
	logg    *logger.Logger

	gatewayCfg config.GatewayConfig
	upiCfg     config.UPIConfig
}

// NewService constructs the checkout orchestrator.
func NewService(carts cart.Service, orderSvc orders.Service, gateway gatewayClient, logg *logger.Logger, gatewayCfg config.GatewayConfig, upiCfg config.UPIConfig) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:      carts,
		orders:     orderSvc,
		gateway:    gateway,
		logg:       logg,
		gatewayCfg: gatewayCfg,
		upiCfg:     upiCfg,
	}, nil
}

// Checkout snapshots the cart, writes the order with stock reserved, then
// registers the order with the gateway. The gateway call happens after the
// order transaction commits: a gateway outage leaves a pending order that
// the admin can still settle, never a half-written one.
func (s *service) Checkout(ctx context.Context, sessionID string, input Input) (*Result, error) {
	state, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]orders.LineInput, 0, len(state.Items))
	for id, qty := range state.Items {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		lines = append(lines, orders.LineInput{ProductID: parsed, Qty: qty})
	}

	order, err := s.orders.Create(ctx, orders.CreateOrderInput{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		Premium:       state.Premium,
		Lines:         lines,
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID)
	orderID := uuid.MustParse(order.ID)
	result := &Result{Order: order, MockGateway: !s.gateway.Configured()}

	total, err := decimal.NewFromString(order.Total)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing order total")
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout())
	defer cancel()
	gwOrder, err := s.gateway.CreateOrder(gatewayCtx, razorpay.AmountToPaise(total), order.ID)
	if err != nil {
		// order stays pending; admin can confirm or reject manually
		s.logg.Error(ctx, "gateway order creation failed", err)
	} else {
		if err := s.orders.AttachGatewayOrder(ctx, orderID, gwOrder.ID, gwOrder.Raw); err != nil {
			s.logg.Error(ctx, "attaching gateway order failed", err)
		} else {
			id := gwOrder.ID
			result.GatewayOrderID = &id
			result.GatewayKeyID = s.gatewayCfg.KeyID
			order.ExternalID = &id
		}
	}

	switch input.PaymentMethod {
	case enums.PaymentMethodUPI:
		result.UPIIntent = UPIIntent(s.upiCfg, order.Total, order.ID)
	case enums.PaymentMethodCard:
		// without gateway credentials the card step cannot be collected,
		// so mock checkouts confirm immediately
		if !s.gateway.Configured() {
			confirmed, err := s.orders.MarkPaid(ctx, orderID)
			if err != nil {
				return nil, err
			}
			result.Order = confirmed
			result.AutoConfirmed = true
		}
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "clearing cart after checkout failed", err)
	}

	s.logg.Info(ctx, "checkout completed")
	return result, nil
}

func (s *service) gatewayTimeout() time.Duration {
	if s.gatewayCfg.Timeout > 0 {
		return s.gatewayCfg.Timeout
	}
	return 20 * time.Second
}

// UPIIntent builds the upi://pay deep link the payment page renders.
func UPIIntent(cfg config.UPIConfig, amount, orderID string) string {
	params := url.Values{}
	params.Set("pa", cfg.PayeeID)
	params.Set("pn", cfg.MerchantName)
	params.Set("am", amount)
	params.Set("cu", cfg.Currency)
	params.Set("tn", "Order "+orderID)
	// UPI apps want %20 for spaces, not the form-encoded +
	return "upi://pay?" + strings.ReplaceAll(params.Encode(), "+", "%20")
}
