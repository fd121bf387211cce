package checkout

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/neevdiamonds/storefront-backend/internal/cart"
	"github.com/neevdiamonds/storefront-backend/internal/orders"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/gateway/razorpay"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

type fakeCarts struct {
	state   *cart.State
	cleared bool
}

func (f *fakeCarts) View(context.Context, string) (*cart.Quote, error) { return &cart.Quote{}, nil }
func (f *fakeCarts) Add(context.Context, string, uuid.UUID, int) (*cart.Quote, error) {
	return nil, nil
}
func (f *fakeCarts) SetQty(context.Context, string, uuid.UUID, int) (*cart.Quote, error) {
	return nil, nil
}
func (f *fakeCarts) Remove(context.Context, string, uuid.UUID) (*cart.Quote, error) {
	return nil, nil
}
func (f *fakeCarts) SetPremium(context.Context, string, bool) (*cart.Quote, error) {
	return nil, nil
}
func (f *fakeCarts) Clear(context.Context, string) error { f.cleared = true; return nil }
func (f *fakeCarts) Snapshot(context.Context, string) (*cart.State, error) {
	return f.state, nil
}

type fakeOrders struct {
	created    *orders.CreateOrderInput
	dto        *orders.OrderDTO
	paid       bool
	attachedID string
}

func (f *fakeOrders) Create(_ context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	f.created = &input
	return f.dto, nil
}
func (f *fakeOrders) Get(context.Context, uuid.UUID) (*orders.OrderDTO, error) { return f.dto, nil }
func (f *fakeOrders) List(context.Context, *enums.PaymentStatus) ([]orders.OrderDTO, error) {
	return nil, nil
}
func (f *fakeOrders) MarkPaid(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	f.paid = true
	paid := *f.dto
	paid.PaymentStatus = "paid"
	paid.Status = "confirmed"
	return &paid, nil
}
func (f *fakeOrders) MarkPaidByExternalID(context.Context, string, string) (*orders.OrderDTO, error) {
	return f.dto, nil
}
func (f *fakeOrders) Reject(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return f.dto, nil
}
func (f *fakeOrders) AttachGatewayOrder(_ context.Context, _ uuid.UUID, externalID, _ string) error {
	f.attachedID = externalID
	return nil
}
func (f *fakeOrders) RecordWebhookEvent(context.Context, string, string, *uuid.UUID) error {
	return nil
}

type fakeGateway struct {
	configured bool
	fail       bool
	calls      int
}

func (f *fakeGateway) Configured() bool { return f.configured }
func (f *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, receipt string) (*razorpay.GatewayOrder, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("gateway unreachable")
	}
	id := "order_GW1"
	if !f.configured {
		id = "mock_order_1"
	}
	return &razorpay.GatewayOrder{ID: id, Amount: amountPaise, Raw: "{}", Mock: !f.configured}, nil
}

func testSetup(t *testing.T, method enums.PaymentMethod, gw *fakeGateway) (Service, *fakeCarts, *fakeOrders) {
	t.Helper()

	productID := uuid.New()
	state := cart.NewState()
	state.Items[productID.String()] = 2

	carts := &fakeCarts{state: state}
	orderSvc := &fakeOrders{dto: &orders.OrderDTO{
		ID:            uuid.NewString(),
		Total:         "49998.00",
		PaymentMethod: method.String(),
		PaymentStatus: "pending",
		Status:        "created",
	}}

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Level: logger.ParseLevel("error")})
	svc, err := NewService(carts, orderSvc, gw, logg,
		config.GatewayConfig{KeyID: "key-id"},
		config.UPIConfig{PayeeID: "neev@upi", MerchantName: "NEEV", Currency: "INR"},
	)
	require.NoError(t, err)
	return svc, carts, orderSvc
}

func checkoutInput(method enums.PaymentMethod) Input {
	return Input{
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		PaymentMethod: method,
	}
}

func TestCheckoutUPIBuildsIntentAndClearsCart(t *testing.T) {
	gw := &fakeGateway{configured: true}
	svc, carts, orderSvc := testSetup(t, enums.PaymentMethodUPI, gw)

	result, err := svc.Checkout(context.Background(), "sess-1", checkoutInput(enums.PaymentMethodUPI))
	require.NoError(t, err)

	require.NotNil(t, orderSvc.created)
	require.Len(t, orderSvc.created.Lines, 1)
	require.Equal(t, 2, orderSvc.created.Lines[0].Qty)

	require.Equal(t, 1, gw.calls)
	require.Equal(t, "order_GW1", orderSvc.attachedID)
	require.NotNil(t, result.GatewayOrderID)
	require.Equal(t, "key-id", result.GatewayKeyID)

	require.True(t, strings.HasPrefix(result.UPIIntent, "upi://pay?"))
	require.Contains(t, result.UPIIntent, "pa=neev%40upi")
	require.Contains(t, result.UPIIntent, "am=49998.00")
	require.Contains(t, result.UPIIntent, "tn=Order%20"+result.Order.ID)
	require.NotContains(t, result.UPIIntent, "+")
	require.False(t, result.AutoConfirmed)
	require.True(t, carts.cleared)
}

func TestCheckoutCardAutoConfirmsWithoutGateway(t *testing.T) {
	gw := &fakeGateway{configured: false}
	svc, _, orderSvc := testSetup(t, enums.PaymentMethodCard, gw)

	result, err := svc.Checkout(context.Background(), "sess-1", checkoutInput(enums.PaymentMethodCard))
	require.NoError(t, err)

	require.True(t, result.MockGateway)
	require.True(t, result.AutoConfirmed)
	require.True(t, orderSvc.paid)
	require.Equal(t, "paid", result.Order.PaymentStatus)
}

func TestCheckoutCardWithGatewayStaysPending(t *testing.T) {
	gw := &fakeGateway{configured: true}
	svc, _, orderSvc := testSetup(t, enums.PaymentMethodCard, gw)

	result, err := svc.Checkout(context.Background(), "sess-1", checkoutInput(enums.PaymentMethodCard))
	require.NoError(t, err)

	require.False(t, result.AutoConfirmed)
	require.False(t, orderSvc.paid)
	require.Equal(t, "pending", result.Order.PaymentStatus)
}

func TestCheckoutGatewayFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{configured: true, fail: true}
	svc, carts, orderSvc := testSetup(t, enums.PaymentMethodUPI, gw)

	result, err := svc.Checkout(context.Background(), "sess-1", checkoutInput(enums.PaymentMethodUPI))
	require.NoError(t, err)

	require.Nil(t, result.GatewayOrderID)
	require.Empty(t, orderSvc.attachedID)
	require.Equal(t, "pending", result.Order.PaymentStatus)
	require.True(t, carts.cleared)
}

func TestCheckoutEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	svc, carts, _ := testSetup(t, enums.PaymentMethodUPI, gw)
	carts.state = cart.NewState()

	_, err := svc.Checkout(context.Background(), "sess-1", checkoutInput(enums.PaymentMethodUPI))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
