package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/errors"
)

// Client talks to the Razorpay Orders API. When API credentials are absent
// it degrades to issuing local mock order shells so the rest of the flow
// keeps working in development.
type Client struct {
	cfg  config.GatewayConfig
	http *http.Client
}

// GatewayOrder is the subset of the gateway order response the storefront
// cares about, plus the raw response body for auditing.
type GatewayOrder struct {
	ID     string
	Amount int64
	Raw    string
	Mock   bool
}

func NewClient(cfg config.GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether real API credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// AmountToPaise converts a rupee amount to integer paise, rounding half
// away from zero to the nearest paisa.
func AmountToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// CreateOrder registers an order with the gateway and returns its external
// id. Without credentials it fabricates a mock_order_<nanos> shell instead
// of calling out.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*GatewayOrder, error) {
	if amountPaise <= 0 {
		return nil, errors.New(errors.CodeValidation, "gateway order amount must be positive")
	}

	if !c.Configured() {
		id := fmt.Sprintf("mock_order_%d", time.Now().UnixNano())
		raw, _ := json.Marshal(map[string]any{
			"id":     id,
			"amount": amountPaise,
			"status": "created",
			"mock":   true,
		})
		return &GatewayOrder{ID: id, Amount: amountPaise, Raw: string(raw), Mock: true}, nil
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding gateway order request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "building gateway order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "calling payment gateway")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reading gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.CodeDependency,
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var parsed createOrderResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "decoding gateway response")
	}
	if parsed.ID == "" {
		return nil, errors.New(errors.CodeDependency, "gateway response missing order id")
	}

	return &GatewayOrder{ID: parsed.ID, Amount: parsed.Amount, Raw: string(raw)}, nil
}
