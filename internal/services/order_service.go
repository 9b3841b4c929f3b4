package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"afcm-ticketing/internal/services/paystack"
	"afcm-ticketing/internal/status"
	"afcm-ticketing/internal/store"
	"afcm-ticketing/models"
	"afcm-ticketing/utils"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	allowedRoles      = map[string]bool{"investor": true, "buyer": true, "seller": true, "attendee": true}
	allowedCurrencies = map[string]bool{"NGN": true, "USD": true}
)

// OrderService owns the invoice-creation flow: record the attendee and
// pending order, then raise a payment request with the gateway. The paid
// transition itself belongs to the issuance pipeline.
type OrderService struct {
	store           store.Store
	gateway         Gateway
	invoiceDueAfter time.Duration
}

func NewOrderService(st store.Store, gateway Gateway, invoiceDueAfter time.Duration) *OrderService {
	return &OrderService{
		store:           st,
		gateway:         gateway,
		invoiceDueAfter: invoiceDueAfter,
	}
}

type CreateOrderInput struct {
	PassSKU       string `json:"pass_sku"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Role          string `json:"attendee_role"`
	Currency      string `json:"currency"`
	ResendInvoice bool   `json:"resend_invoice"`
	AcceptedTerms bool   `json:"accepted_terms"`
	TermsVersion  string `json:"terms_version"`
}

func (in *CreateOrderInput) Validate() error {
	for field, value := range map[string]string{
		"pass_sku":      in.PassSKU,
		"full_name":     in.FullName,
		"email":         in.Email,
		"attendee_role": in.Role,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("missing %s: %w", field, status.ErrInvalidInput)
		}
	}

	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("invalid email address: %w", status.ErrInvalidInput)
	}
	if !allowedRoles[in.Role] {
		return fmt.Errorf("invalid attendee role: %w", status.ErrInvalidInput)
	}

	currency := strings.ToUpper(in.Currency)
	if currency != "" && !allowedCurrencies[currency] {
		return fmt.Errorf("unsupported currency selection: %w", status.ErrInvalidInput)
	}

	if !in.ResendInvoice {
		if !in.AcceptedTerms {
			return fmt.Errorf("terms must be accepted: %w", status.ErrInvalidInput)
		}
		if strings.TrimSpace(in.TermsVersion) == "" {
			return fmt.Errorf("missing terms version: %w", status.ErrInvalidInput)
		}
	}

	return nil
}

type CreateOrderResult struct {
	OrderID     string `json:"order_id"`
	AttendeeID  string `json:"attendee_id"`
	RequestCode string `json:"payment_request_code"`
	HostedLink  string `json:"hosted_link,omitempty"`
	Existing    bool   `json:"existing,omitempty"`
	Resent      bool   `json:"resent,omitempty"`
}

// CreateOrder registers the attendee, opens a pending order and raises a
// Paystack payment request. Re-submitting the same email returns the
// existing pending order; with resend_invoice set it re-sends the invoice
// instead.
func (s *OrderService) CreateOrder(ctx context.Context, in *CreateOrderInput) (*CreateOrderResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pass, err := s.store.PassProductBySKU(ctx, in.PassSKU)
	if err != nil {
		return nil, fmt.Errorf("createOrder: %w: %v", status.ErrUpstreamUnavailable, err)
	}
	if pass == nil {
		return nil, status.ErrPassUnavailable
	}

	existing, err := s.store.PendingOrderByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("createOrder: %w: %v", status.ErrUpstreamUnavailable, err)
	}
	if existing != nil {
		result := &CreateOrderResult{
			OrderID:     existing.ID,
			AttendeeID:  existing.AttendeeID,
			RequestCode: existing.PaystackRequestCode,
			HostedLink:  existing.PaystackInvoiceURL,
			Existing:    true,
		}
		if in.ResendInvoice && existing.PaystackRequestCode != "" {
			if err := s.gateway.NotifyPaymentRequest(ctx, existing.PaystackRequestCode); err != nil {
				return nil, fmt.Errorf("createOrder: %w", err)
			}
			result.Resent = true
		}
		return result, nil
	}

	attendee := &models.Attendee{
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		Company:       in.Company,
		Role:          in.Role,
		Status:        models.AttendeeStatusUnpaid,
		PassProductID: pass.ID,
	}
	order := &models.Order{
		PassProductID: pass.ID,
		Status:        models.OrderStatusPending,
		Amount:        pass.Amount,
		Currency:      pass.Currency,
	}
	if err := s.store.CreateRegistration(ctx, attendee, order); err != nil {
		return nil, fmt.Errorf("createOrder: %w: %v", status.ErrUpstreamUnavailable, err)
	}

	// reference label printed on the invoice so support can match a payment
	// to an order without exposing record ids
	reference, err := utils.GenerateCode(6)
	if err != nil {
		return nil, fmt.Errorf("createOrder: %w: %v", status.ErrUpstreamUnavailable, err)
	}
	reference = "AFCM-REF-" + reference

	description := fmt.Sprintf("%s – AFCM", pass.Name)
	invoice, err := s.gateway.CreatePaymentRequest(ctx, &paystack.InvoiceForm{
		Customer:    in.Email,
		Amount:      pass.Amount,
		Currency:    pass.Currency,
		Description: description,
		DueDate:     time.Now().Add(s.invoiceDueAfter).Format(time.RFC3339),
		Metadata: map[string]any{
			"order_id":    order.ID,
			"attendee_id": attendee.ID,
			"pass_sku":    pass.SKU,
			"reference":   reference,
		},
		LineItems: []paystack.LineItem{
			{Name: description, Amount: pass.Amount.IntPart(), Quantity: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("createOrder: %w", err)
	}

	meta, _ := json.Marshal(invoice)
	if err := s.store.SetOrderInvoice(ctx, order.ID, invoice.RequestCode, invoice.HostedLink, meta); err != nil {
		return nil, fmt.Errorf("createOrder: %w: %v", status.ErrUpstreamUnavailable, err)
	}

	return &CreateOrderResult{
		OrderID:     order.ID,
		AttendeeID:  attendee.ID,
		RequestCode: invoice.RequestCode,
		HostedLink:  invoice.HostedLink,
	}, nil
}
