package razorpaywebhook

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/neevdiamonds/storefront-backend/internal/orders"
	"github.com/neevdiamonds/storefront-backend/pkg/enums"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

type auditRow struct {
	event   string
	orderID *uuid.UUID
}

type fakeOrders struct {
	knownExternalID string
	orderID         uuid.UUID
	markPaidCalls   int
	lastPayload     string
	audits          []auditRow
	auditErr        error
}

func (f *fakeOrders) Create(context.Context, orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return nil, nil
}
func (f *fakeOrders) Get(context.Context, uuid.UUID) (*orders.OrderDTO, error) { return nil, nil }
func (f *fakeOrders) List(context.Context, *enums.PaymentStatus) ([]orders.OrderDTO, error) {
	return nil, nil
}
func (f *fakeOrders) MarkPaid(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, nil
}
func (f *fakeOrders) Reject(context.Context, uuid.UUID) (*orders.OrderDTO, error) { return nil, nil }
func (f *fakeOrders) AttachGatewayOrder(context.Context, uuid.UUID, string, string) error {
	return nil
}
func (f *fakeOrders) MarkPaidByExternalID(_ context.Context, externalID, payload string) (*orders.OrderDTO, error) {
	if externalID != f.knownExternalID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order for gateway id")
	}
	f.markPaidCalls++
	f.lastPayload = payload
	return &orders.OrderDTO{ID: f.orderID.String(), PaymentStatus: "paid"}, nil
}
func (f *fakeOrders) RecordWebhookEvent(_ context.Context, event, _ string, orderID *uuid.UUID) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audits = append(f.audits, auditRow{event: event, orderID: orderID})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeOrders) {
	t.Helper()
	fake := &fakeOrders{knownExternalID: "order_GW1", orderID: uuid.New()}
	logg := logger.New(logger.Options{ServiceName: "webhook-test", Level: logger.ParseLevel("error")})
	svc, err := NewService(fake, logg)
	require.NoError(t, err)
	return svc, fake
}

func captureBody(orderID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"%s"}}}}`,
		orderID,
	))
}

func TestProcessCaptureConfirmsOrder(t *testing.T) {
	svc, fake := newTestService(t)

	outcome, err := svc.Process(context.Background(), captureBody("order_GW1"))
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Equal(t, 1, fake.markPaidCalls)
	require.Contains(t, fake.lastPayload, "order_GW1")

	require.Len(t, fake.audits, 1)
	require.Equal(t, "payment.captured", fake.audits[0].event)
	require.NotNil(t, fake.audits[0].orderID)
	require.Equal(t, fake.orderID, *fake.audits[0].orderID)
}

func TestProcessCaptureVersionedEventName(t *testing.T) {
	svc, fake := newTestService(t)

	body := []byte(`{"type":"payment.captured.v1","payload":{"payment":{"entity":{"order_id":"order_GW1"}}}}`)
	outcome, err := svc.Process(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Equal(t, 1, fake.markPaidCalls)
}

func TestProcessUnknownOrderIsAuditedNotFatal(t *testing.T) {
	svc, fake := newTestService(t)

	outcome, err := svc.Process(context.Background(), captureBody("order_UNKNOWN"))
	require.NoError(t, err)
	require.Equal(t, OutcomeUnmatched, outcome)
	require.Zero(t, fake.markPaidCalls)
	require.Len(t, fake.audits, 1)
	require.Nil(t, fake.audits[0].orderID)
}

func TestProcessIgnoresOtherEvents(t *testing.T) {
	svc, fake := newTestService(t)

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"order_id":"order_GW1"}}}}`)
	outcome, err := svc.Process(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, outcome)
	require.Zero(t, fake.markPaidCalls)
	require.Equal(t, "payment.failed", fake.audits[0].event)
}

func TestProcessMalformedBody(t *testing.T) {
	svc, fake := newTestService(t)

	outcome, err := svc.Process(context.Background(), []byte(`{not json`))
	require.NoError(t, err)
	require.Equal(t, OutcomeMalformed, outcome)
	require.Equal(t, "malformed", fake.audits[0].event)
}

func TestProcessCaptureWithoutOrderID(t *testing.T) {
	svc, fake := newTestService(t)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{}}}}`)
	outcome, err := svc.Process(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, OutcomeMalformed, outcome)
	require.Zero(t, fake.markPaidCalls)
}

func TestProcessSurfacesAuditFailure(t *testing.T) {
	svc, fake := newTestService(t)
	fake.auditErr = fmt.Errorf("db down")

	_, err := svc.Process(context.Background(), captureBody("order_GW1"))
	require.Error(t, err)
}
