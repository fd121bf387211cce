package razorpaywebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/neevdiamonds/storefront-backend/internal/orders"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

// Outcome classifies what a webhook delivery did.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeMalformed Outcome = "malformed"
)

// envelope is the wire shape of a gateway event. Some senders use "type"
// instead of "event".
type envelope struct {
	Event   string `json:"event"`
	Type    string `json:"type"`
	Payload struct {
		Payment struct {
			Entity json.RawMessage `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
}

// Service applies gateway webhook deliveries to the order ledger. Every
// delivery leaves an audit row, whatever its fate.
type Service struct {
	orders orders.Service
	logg   *logger.Logger
}

// NewService constructs the webhook processor.
func NewService(orderSvc orders.Service, logg *logger.Logger) (*Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{orders: orderSvc, logg: logg}, nil
}

// Process handles one verified delivery. Malformed payloads, unknown
// events, and captures for unknown orders are audited and absorbed; only
// storage failures surface as errors.
func (s *Service) Process(ctx context.Context, body []byte) (Outcome, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if auditErr := s.orders.RecordWebhookEvent(ctx, "malformed", string(body), nil); auditErr != nil {
			return OutcomeMalformed, auditErr
		}
		return OutcomeMalformed, nil
	}

	event := env.Event
	if event == "" {
		event = env.Type
	}

	if !isCaptureEvent(event) {
		s.logg.Info(s.logg.WithField(ctx, "event", event), "ignoring webhook event")
		if err := s.orders.RecordWebhookEvent(ctx, event, string(body), nil); err != nil {
			return OutcomeIgnored, err
		}
		return OutcomeIgnored, nil
	}

	var entity paymentEntity
	if len(env.Payload.Payment.Entity) > 0 {
		// a broken entity still counts as malformed, not ignored
		if err := json.Unmarshal(env.Payload.Payment.Entity, &entity); err != nil {
			entity = paymentEntity{}
		}
	}

	externalID := entity.OrderID
	if externalID == "" {
		externalID = entity.ID
	}
	if externalID == "" {
		if err := s.orders.RecordWebhookEvent(ctx, event, string(body), nil); err != nil {
			return OutcomeMalformed, err
		}
		return OutcomeMalformed, nil
	}

	order, err := s.orders.MarkPaidByExternalID(ctx, externalID, string(env.Payload.Payment.Entity))
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "external_id", externalID), "webhook capture for unknown order")
			if auditErr := s.orders.RecordWebhookEvent(ctx, event, string(body), nil); auditErr != nil {
				return OutcomeUnmatched, auditErr
			}
			return OutcomeUnmatched, nil
		}
		return OutcomeUnmatched, err
	}

	orderID := uuid.MustParse(order.ID)
	if err := s.orders.RecordWebhookEvent(ctx, event, string(body), &orderID); err != nil {
		return OutcomeAccepted, err
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "webhook capture applied")
	return OutcomeAccepted, nil
}

func isCaptureEvent(event string) bool {
	return event == "payment.captured" || strings.HasPrefix(event, "payment.captured.")
}
