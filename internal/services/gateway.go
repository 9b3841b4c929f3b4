package services

import (
	"context"
	"encoding/json"
	"time"

	"afcm-ticketing/internal/services/paystack"
)

// Gateway is the slice of the payment provider the services depend on.
type Gateway interface {
	CreatePaymentRequest(ctx context.Context, f *paystack.InvoiceForm) (*paystack.Invoice, error)
	VerifyPaymentRequest(ctx context.Context, requestCode string) (*paystack.VerificationResult, error)
	NotifyPaymentRequest(ctx context.Context, requestCode string) error
}

// GatewayVerification is the narrow internal view of an authoritative
// verification answer. The gateway's loosely typed JSON is translated into
// this at the boundary; the raw body is kept for the order's audit column.
type GatewayVerification struct {
	Paid   bool
	PaidAt *time.Time
	Raw    json.RawMessage
}

// VerificationFromGateway translates the provider result.
func VerificationFromGateway(v *paystack.VerificationResult) GatewayVerification {
	return GatewayVerification{
		Paid:   v.Paid,
		PaidAt: v.PaidAt,
		Raw:    v.Raw,
	}
}
