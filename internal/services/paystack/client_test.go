package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"afcm-ticketing/internal/status"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:   serverURL,
		SecretKey: "sk_test_secret",
	})
}

func TestVerifyPaymentRequest_Paid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/paymentrequest/verify/PRQ_abc", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Payment request retrieved",
			"data": {
				"request_code": "PRQ_abc",
				"status": "success",
				"paid": true,
				"paid_at": "2026-03-02T10:15:00Z",
				"amount": 250000,
				"currency": "NGN",
				"email": "ada@example.com",
				"invoice_number": "INV-0042"
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.Equal(t, "PRQ_abc", result.RequestCode)
	assert.Equal(t, "NGN", result.Currency)
	assert.Equal(t, "ada@example.com", result.Email)
	require.NotNil(t, result.PaidAt)
	assert.Equal(t, 2026, result.PaidAt.Year())
	assert.NotEmpty(t, result.Raw)
}

func TestVerifyPaymentRequest_Unpaid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": true,
			"data": {
				"request_code": "PRQ_abc",
				"status": "pending",
				"paid": false,
				"paid_at": null,
				"amount": 250000,
				"currency": "NGN"
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	require.NoError(t, err)
	assert.False(t, result.Paid)
	assert.Nil(t, result.PaidAt)
}

func TestVerifyPaymentRequest_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	assert.ErrorIs(t, err, status.ErrUpstreamUnavailable)
}

func TestVerifyPaymentRequest_FalseStatusReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	assert.ErrorIs(t, err, status.ErrUpstreamUnavailable)
}

func TestVerifyPaymentRequest_MalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	assert.ErrorIs(t, err, status.ErrUpstreamUnavailable)
}

func TestVerifyPaymentRequest_Unreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.VerifyPaymentRequest(context.Background(), "PRQ_abc")

	assert.ErrorIs(t, err, status.ErrUpstreamUnavailable)
}

func TestCreatePaymentRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/paymentrequest", r.URL.Path)

		w.Write([]byte(`{
			"status": true,
			"message": "Payment request created",
			"data": {
				"request_code": "PRQ_new",
				"status": "pending",
				"amount": 250000,
				"currency": "NGN",
				"hosted_link": "https://paystack.shop/pay/prq_new"
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	invoice, err := client.CreatePaymentRequest(context.Background(), &InvoiceForm{
		Customer:    "ada@example.com",
		Amount:      decimal.NewFromInt(250000),
		Currency:    "NGN",
		Description: "Investor Pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "PRQ_new", invoice.RequestCode)
	assert.Equal(t, "https://paystack.shop/pay/prq_new", invoice.HostedLink)
}

func TestNotifyPaymentRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paymentrequest/notify/PRQ_abc", r.URL.Path)
		w.Write([]byte(`{"status": true, "message": "Notification sent"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.NotifyPaymentRequest(context.Background(), "PRQ_abc"))
}
