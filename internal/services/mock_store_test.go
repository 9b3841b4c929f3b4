package services

import (
	"context"
	"encoding/json"
	"time"

	"afcm-ticketing/internal/services/paystack"
	"afcm-ticketing/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) OrderByRequestCode(ctx context.Context, requestCode string) (*models.Order, error) {
	args := m.Called(ctx, requestCode)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) MarkOrderPaid(ctx context.Context, orderID string, paidAt time.Time, gatewayMeta json.RawMessage) (bool, error) {
	args := m.Called(ctx, orderID, paidAt, gatewayMeta)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) SetOrderInvoice(ctx context.Context, orderID, requestCode, invoiceURL string, gatewayMeta json.RawMessage) error {
	args := m.Called(ctx, orderID, requestCode, invoiceURL, gatewayMeta)
	return args.Error(0)
}

func (m *mockStore) Attendee(ctx context.Context, id string) (*models.Attendee, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Attendee), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) PromoteAttendee(ctx context.Context, attendeeID, passProductID string) error {
	args := m.Called(ctx, attendeeID, passProductID)
	return args.Error(0)
}

func (m *mockStore) PassProduct(ctx context.Context, id string) (*models.PassProduct, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.PassProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) PassProductBySKU(ctx context.Context, sku string) (*models.PassProduct, error) {
	args := m.Called(ctx, sku)
	if p := args.Get(0); p != nil {
		return p.(*models.PassProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) EventDays(ctx context.Context) ([]models.EventDay, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]models.EventDay), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) EventSettings(ctx context.Context) (*models.EventSettings, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*models.EventSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) TicketByOrder(ctx context.Context, orderID string) (*models.Ticket, error) {
	args := m.Called(ctx, orderID)
	if t := args.Get(0); t != nil {
		return t.(*models.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CreateTicket(ctx context.Context, t *models.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockStore) CreateRegistration(ctx context.Context, a *models.Attendee, o *models.Order) error {
	args := m.Called(ctx, a, o)
	return args.Error(0)
}

func (m *mockStore) PendingOrderByEmail(ctx context.Context, email string) (*models.Order, error) {
	args := m.Called(ctx, email)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreatePaymentRequest(ctx context.Context, f *paystack.InvoiceForm) (*paystack.Invoice, error) {
	args := m.Called(ctx, f)
	if inv := args.Get(0); inv != nil {
		return inv.(*paystack.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyPaymentRequest(ctx context.Context, requestCode string) (*paystack.VerificationResult, error) {
	args := m.Called(ctx, requestCode)
	if v := args.Get(0); v != nil {
		return v.(*paystack.VerificationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) NotifyPaymentRequest(ctx context.Context, requestCode string) error {
	args := m.Called(ctx, requestCode)
	return args.Error(0)
}
