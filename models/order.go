package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. pending is the only state MarkOrderPaid transitions out
// of; everything else is terminal for the payment pipeline.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusExpired   = "expired"
	OrderStatusCancelled = "cancelled"
)

// Order tracks one attendee's purchase from invoice to payment.
// PaystackRequestCode is the join key between webhook deliveries and the
// row; it is unique across non-empty values.
type Order struct {
	ID                  string          `json:"id"`
	AttendeeID          string          `json:"attendee_id"`
	PassProductID       string          `json:"pass_product_id"`
	Status              string          `json:"status"` // pending, paid, expired, cancelled
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	PaystackRequestCode string          `json:"paystack_request_code,omitempty"`
	PaystackInvoiceURL  string          `json:"paystack_invoice_url,omitempty"`
	PaystackMeta        json.RawMessage `json:"paystack_meta,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// IsTerminal reports whether the order can no longer change state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusExpired || o.Status == OrderStatusCancelled
}
