package store

import (
	"context"
	"encoding/json"
	"time"

	"afcm-ticketing/models"
)

// Store is the relational boundary for the issuance pipeline. Consistency
// comes from the store itself (conditional updates, unique indexes), not
// from in-process locking, so concurrent webhook redeliveries are safe.
type Store interface {
	// OrderByRequestCode looks up the order recorded at invoice-creation
	// time. Returns status.ErrOrderNotFound when no order matches.
	OrderByRequestCode(ctx context.Context, requestCode string) (*models.Order, error)
	OrderByID(ctx context.Context, id string) (*models.Order, error)

	// MarkOrderPaid performs the conditional pending->paid transition:
	// UPDATE ... WHERE id = orderID AND status = 'pending'. The bool is
	// false when zero rows changed, meaning a concurrent delivery already
	// processed the order (success-no-op for the caller).
	MarkOrderPaid(ctx context.Context, orderID string, paidAt time.Time, gatewayMeta json.RawMessage) (bool, error)

	// SetOrderInvoice records the gateway invoice on a fresh order.
	SetOrderInvoice(ctx context.Context, orderID, requestCode, invoiceURL string, gatewayMeta json.RawMessage) error

	Attendee(ctx context.Context, id string) (*models.Attendee, error)
	PromoteAttendee(ctx context.Context, attendeeID, passProductID string) error

	PassProduct(ctx context.Context, id string) (*models.PassProduct, error)
	PassProductBySKU(ctx context.Context, sku string) (*models.PassProduct, error)
	EventDays(ctx context.Context) ([]models.EventDay, error)
	EventSettings(ctx context.Context) (*models.EventSettings, error)

	// TicketByOrder returns (nil, nil) when the order has no ticket yet.
	TicketByOrder(ctx context.Context, orderID string) (*models.Ticket, error)
	// CreateTicket inserts the ticket row; the unique order_id index is the
	// backstop against concurrent double-issuance.
	CreateTicket(ctx context.Context, t *models.Ticket) error

	CreateNotification(ctx context.Context, n *models.Notification) error

	// CreateRegistration inserts the attendee and its pending order as one
	// unit during invoice creation.
	CreateRegistration(ctx context.Context, a *models.Attendee, o *models.Order) error
	// PendingOrderByEmail returns (nil, nil) when the attendee has no
	// pending order.
	PendingOrderByEmail(ctx context.Context, email string) (*models.Order, error)
}
