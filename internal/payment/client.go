package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// Client talks to a Razorpay-style REST gateway: create a gateway order,
// then capture a payment against it. It is constructed once in main and
// injected wherever a Gateway is needed.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*ChargeResult]
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Declines are answers, not outages; they must not open the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDeclined)
		},
	}

	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*ChargeResult](settings),
	}
}

type gatewayOrderRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

type capturePaymentRequest struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type capturePaymentResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description"`
}

func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return c.breaker.Execute(func() (*ChargeResult, error) {
		return c.charge(ctx, req)
	})
}

func (c *Client) charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	amount := req.Amount.Mul(minorUnits).IntPart()

	var orderResp gatewayOrderResponse
	err := c.post(ctx, "/v1/orders", gatewayOrderRequest{
		Amount:   amount,
		Currency: req.Currency,
		Receipt:  req.OrderID,
	}, &orderResp)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	var payResp capturePaymentResponse
	err = c.post(ctx, "/v1/payments", capturePaymentRequest{
		OrderID:  orderResp.ID,
		Amount:   amount,
		Currency: req.Currency,
	}, &payResp)
	if err != nil {
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	if payResp.Status != "captured" {
		reason := payResp.ErrorDescription
		if reason == "" {
			reason = payResp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrDeclined, reason)
	}

	return &ChargeResult{
		GatewayOrderID:   orderResp.ID,
		GatewayPaymentID: payResp.ID,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}

	return nil
}

// Every currency this storefront displays has two fractional digits.
var minorUnits = decimal.NewFromInt(100)
