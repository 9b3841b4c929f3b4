package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"afcm-ticketing/internal/status"
	"afcm-ticketing/utils"

	"github.com/shopspring/decimal"
)

type ClientConfig struct {
	BaseURL   string `json:"baseUrl" mapstructure:"base_url"`
	SecretKey string `json:"secretKey" mapstructure:"secret_key"`
}

// Client talks to the Paystack payment-request API. All calls are bearer
// authenticated with the account secret key.
type Client struct {
	// baseURL is the base url of the Paystack backend.
	baseURL string

	// secretKey authenticates API calls.
	secretKey string

	// breaker short-circuits calls while the gateway is failing.
	breaker *utils.CircuitBreaker

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a new Paystack client.
func NewClient(c *ClientConfig) *Client {
	return &Client{
		baseURL:   c.BaseURL,
		secretKey: c.SecretKey,
		breaker:   utils.NewCircuitBreaker("paystack"),

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InvoiceForm is the input for creating a payment request.
type InvoiceForm struct {
	Customer    string          `json:"customer"`
	Amount      decimal.Decimal `json:"-"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
	DueDate     string          `json:"due_date,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	LineItems   []LineItem      `json:"line_items,omitempty"`
}

type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Quantity int    `json:"quantity,omitempty"`
}

// Invoice is the gateway-side record of an issued bill.
type Invoice struct {
	RequestCode string `json:"request_code"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	DueDate     string `json:"due_date"`
	PDFURL      string `json:"pdf_url"`
	HostedLink  string `json:"hosted_link"`
}

// VerificationResult is the authoritative paid/unpaid answer for a payment
// request. The webhook body's own status fields are never trusted; only
// this translates into an order transition.
type VerificationResult struct {
	RequestCode   string
	Paid          bool
	Status        string
	Amount        decimal.Decimal
	Currency      string
	Email         string
	InvoiceNumber string
	PaidAt        *time.Time
	Raw           json.RawMessage
}

// CreatePaymentRequest issues a Paystack invoice for a pending order.
func (c *Client) CreatePaymentRequest(ctx context.Context, f *InvoiceForm) (*Invoice, error) {
	payload := struct {
		InvoiceForm
		Amount int64 `json:"amount"`
	}{InvoiceForm: *f, Amount: f.Amount.IntPart()}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("createPaymentRequest: json.Marshal: %w", err)
	}

	var reply struct {
		Status  bool    `json:"status"`
		Message string  `json:"message"`
		Data    Invoice `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/paymentrequest", body, &reply); err != nil {
		return nil, fmt.Errorf("createPaymentRequest: %w", err)
	}
	if !reply.Status {
		return nil, fmt.Errorf("createPaymentRequest: reply.Message: %v: %w", reply.Message, status.ErrUpstreamUnavailable)
	}

	return &reply.Data, nil
}

// VerifyPaymentRequest fetches the authoritative payment state by request
// code. Transient transport and non-2xx failures surface as
// status.ErrUpstreamUnavailable so the webhook sender redelivers.
func (c *Client) VerifyPaymentRequest(ctx context.Context, requestCode string) (*VerificationResult, error) {
	var reply struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/paymentrequest/verify/"+requestCode, nil, &reply); err != nil {
		return nil, fmt.Errorf("verifyPaymentRequest: %w", err)
	}
	if !reply.Status || len(reply.Data) == 0 {
		return nil, fmt.Errorf("verifyPaymentRequest: reply.Message: %v: %w", reply.Message, status.ErrUpstreamUnavailable)
	}

	var data struct {
		RequestCode   string          `json:"request_code"`
		Status        string          `json:"status"`
		Paid          bool            `json:"paid"`
		PaidAt        *string         `json:"paid_at"`
		Amount        decimal.Decimal `json:"amount"`
		Currency      string          `json:"currency"`
		Email         string          `json:"email"`
		InvoiceNumber string          `json:"invoice_number"`
	}
	if err := json.Unmarshal(reply.Data, &data); err != nil {
		return nil, fmt.Errorf("verifyPaymentRequest: unrecognized reply shape: %v: %w", err, status.ErrUpstreamUnavailable)
	}

	result := &VerificationResult{
		RequestCode:   data.RequestCode,
		Paid:          data.Paid,
		Status:        data.Status,
		Amount:        data.Amount,
		Currency:      data.Currency,
		Email:         data.Email,
		InvoiceNumber: data.InvoiceNumber,
		Raw:           reply.Data,
	}
	if data.PaidAt != nil {
		if ts, err := time.Parse(time.RFC3339, *data.PaidAt); err == nil {
			result.PaidAt = &ts
		}
	}

	return result, nil
}

// NotifyPaymentRequest asks Paystack to resend the invoice email.
func (c *Client) NotifyPaymentRequest(ctx context.Context, requestCode string) error {
	var reply struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/paymentrequest/notify/"+requestCode, nil, &reply); err != nil {
		return fmt.Errorf("notifyPaymentRequest: %w", err)
	}
	if !reply.Status {
		return fmt.Errorf("notifyPaymentRequest: reply.Message: %v: %w", reply.Message, status.ErrUpstreamUnavailable)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.breaker.Execute(ctx, func() (any, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.secretKey)

		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http.Do: %v: %w", err, status.ErrUpstreamUnavailable)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			rbody, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("resp.StatusCode: %d, resp.Body: %s: %w", resp.StatusCode, rbody, status.ErrUpstreamUnavailable)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("io.ReadAll: %v: %w", err, status.ErrUpstreamUnavailable)
		}
		return raw, nil
	})
	if err != nil {
		if !errors.Is(err, status.ErrUpstreamUnavailable) {
			// breaker open counts as an upstream outage
			return fmt.Errorf("%v: %w", err, status.ErrUpstreamUnavailable)
		}
		return err
	}

	if err := json.Unmarshal(resp.([]byte), out); err != nil {
		return fmt.Errorf("json.Unmarshal: %v: %w", err, status.ErrUpstreamUnavailable)
	}
	return nil
}
