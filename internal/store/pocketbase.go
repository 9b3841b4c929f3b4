package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"afcm-ticketing/internal/status"
	"afcm-ticketing/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// PocketBase datetime column layout.
const dateLayout = "2006-01-02 15:04:05.000Z"

// PBStore implements Store over the embedded PocketBase database.
type PBStore struct {
	app core.App
}

func NewPBStore(app core.App) *PBStore {
	return &PBStore{app: app}
}

func (s *PBStore) OrderByRequestCode(ctx context.Context, requestCode string) (*models.Order, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"orders",
		"paystack_request_code = {:code}",
		dbx.Params{"code": requestCode},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrOrderNotFound
		}
		return nil, fmt.Errorf("orderByRequestCode: %w", err)
	}
	return orderFromRecord(record), nil
}

func (s *PBStore) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	record, err := s.app.FindRecordById("orders", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrOrderNotFound
		}
		return nil, fmt.Errorf("orderByID: %w", err)
	}
	return orderFromRecord(record), nil
}

// MarkOrderPaid runs the conditional transition as a single UPDATE so that
// concurrent redeliveries race at the row, not in this process.
func (s *PBStore) MarkOrderPaid(ctx context.Context, orderID string, paidAt time.Time, gatewayMeta json.RawMessage) (bool, error) {
	res, err := s.app.DB().NewQuery(
		"UPDATE orders SET status = 'paid', paid_at = {:paidAt}, paystack_meta = {:meta} WHERE id = {:id} AND status = 'pending'",
	).Bind(dbx.Params{
		"paidAt": paidAt.UTC().Format(dateLayout),
		"meta":   string(gatewayMeta),
		"id":     orderID,
	}).WithContext(ctx).Execute()
	if err != nil {
		return false, fmt.Errorf("markOrderPaid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("markOrderPaid: rowsAffected: %w", err)
	}
	return n > 0, nil
}

func (s *PBStore) SetOrderInvoice(ctx context.Context, orderID, requestCode, invoiceURL string, gatewayMeta json.RawMessage) error {
	record, err := s.app.FindRecordById("orders", orderID)
	if err != nil {
		return fmt.Errorf("setOrderInvoice: %w", err)
	}

	record.Set("paystack_request_code", requestCode)
	record.Set("paystack_invoice_url", invoiceURL)
	record.Set("paystack_meta", string(gatewayMeta))

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("setOrderInvoice: save: %w", err)
	}
	return nil
}

func (s *PBStore) Attendee(ctx context.Context, id string) (*models.Attendee, error) {
	record, err := s.app.FindRecordById("attendees", id)
	if err != nil {
		return nil, fmt.Errorf("attendee: %w", err)
	}
	return attendeeFromRecord(record), nil
}

func (s *PBStore) PromoteAttendee(ctx context.Context, attendeeID, passProductID string) error {
	record, err := s.app.FindRecordById("attendees", attendeeID)
	if err != nil {
		return fmt.Errorf("promoteAttendee: %w", err)
	}

	record.Set("status", models.AttendeeStatusPaid)
	record.Set("pass_product_id", passProductID)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("promoteAttendee: save: %w", err)
	}
	return nil
}

func (s *PBStore) PassProduct(ctx context.Context, id string) (*models.PassProduct, error) {
	record, err := s.app.FindRecordById("pass_products", id)
	if err != nil {
		return nil, fmt.Errorf("passProduct: %w", err)
	}
	return passFromRecord(record), nil
}

func (s *PBStore) PassProductBySKU(ctx context.Context, sku string) (*models.PassProduct, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"pass_products",
		"sku = {:sku} && is_active = true",
		dbx.Params{"sku": sku},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("passProductBySKU: %w", err)
	}
	return passFromRecord(record), nil
}

func (s *PBStore) EventDays(ctx context.Context) ([]models.EventDay, error) {
	records, err := s.app.FindAllRecords("event_days")
	if err != nil {
		return nil, fmt.Errorf("eventDays: %w", err)
	}

	days := make([]models.EventDay, 0, len(records))
	for _, r := range records {
		days = append(days, models.EventDay{
			DayNumber:  r.GetInt("day_number"),
			DoorsOpen:  r.GetDateTime("doors_open").Time(),
			DoorsClose: r.GetDateTime("doors_close").Time(),
		})
	}
	return days, nil
}

func (s *PBStore) EventSettings(ctx context.Context) (*models.EventSettings, error) {
	records, err := s.app.FindAllRecords("event_settings")
	if err != nil {
		return nil, fmt.Errorf("eventSettings: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("eventSettings: no settings row: %w", status.ErrDataIntegrity)
	}

	return &models.EventSettings{
		Timezone: records[0].GetString("timezone"),
		SiteURL:  records[0].GetString("site_url"),
	}, nil
}

func (s *PBStore) TicketByOrder(ctx context.Context, orderID string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"tickets",
		"order_id = {:orderId}",
		dbx.Params{"orderId": orderID},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ticketByOrder: %w", err)
	}
	return ticketFromRecord(record), nil
}

func (s *PBStore) CreateTicket(ctx context.Context, t *models.Ticket) error {
	collection, err := s.app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return fmt.Errorf("createTicket: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("id", t.ID)
	record.Set("attendee_id", t.AttendeeID)
	record.Set("order_id", t.OrderID)
	record.Set("pass_product_id", t.PassProductID)
	record.Set("serial_number", t.SerialNumber)
	record.Set("valid_from", t.ValidFrom.UTC().Format(dateLayout))
	record.Set("valid_to", t.ValidTo.UTC().Format(dateLayout))
	record.Set("qr_payload", t.QRPayload)
	record.Set("checksum", t.Checksum)
	record.Set("ics_base64", t.ICSBase64)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("createTicket: save: %w", err)
	}
	return nil
}

func (s *PBStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	collection, err := s.app.FindCollectionByNameOrId("notifications")
	if err != nil {
		return fmt.Errorf("createNotification: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("recipient_email", n.RecipientEmail)
	record.Set("subject", n.Subject)
	record.Set("body_text", n.BodyText)
	record.Set("status", n.Status)
	record.Set("metadata", string(n.Metadata))

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("createNotification: save: %w", err)
	}
	n.ID = record.Id
	return nil
}

func (s *PBStore) CreateRegistration(ctx context.Context, a *models.Attendee, o *models.Order) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		attendees, err := txApp.FindCollectionByNameOrId("attendees")
		if err != nil {
			return fmt.Errorf("createRegistration: %w", err)
		}

		attendee := core.NewRecord(attendees)
		attendee.Set("full_name", a.FullName)
		attendee.Set("email", a.Email)
		attendee.Set("phone", a.Phone)
		attendee.Set("company", a.Company)
		attendee.Set("attendee_role", a.Role)
		attendee.Set("status", models.AttendeeStatusUnpaid)
		attendee.Set("pass_product_id", a.PassProductID)
		if err := txApp.Save(attendee); err != nil {
			return fmt.Errorf("createRegistration: save attendee: %w", err)
		}
		a.ID = attendee.Id

		orders, err := txApp.FindCollectionByNameOrId("orders")
		if err != nil {
			return fmt.Errorf("createRegistration: %w", err)
		}

		order := core.NewRecord(orders)
		order.Set("attendee_id", a.ID)
		order.Set("pass_product_id", o.PassProductID)
		order.Set("status", models.OrderStatusPending)
		order.Set("amount", o.Amount.InexactFloat64())
		order.Set("currency", o.Currency)
		if err := txApp.Save(order); err != nil {
			return fmt.Errorf("createRegistration: save order: %w", err)
		}
		o.ID = order.Id
		o.AttendeeID = a.ID

		return nil
	})
}

func (s *PBStore) PendingOrderByEmail(ctx context.Context, email string) (*models.Order, error) {
	attendee, err := s.app.FindFirstRecordByFilter(
		"attendees",
		"email = {:email}",
		dbx.Params{"email": email},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pendingOrderByEmail: %w", err)
	}

	order, err := s.app.FindFirstRecordByFilter(
		"orders",
		"attendee_id = {:attendeeId} && status = 'pending'",
		dbx.Params{"attendeeId": attendee.Id},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pendingOrderByEmail: %w", err)
	}
	return orderFromRecord(order), nil
}

func orderFromRecord(r *core.Record) *models.Order {
	o := &models.Order{
		ID:                  r.Id,
		AttendeeID:          r.GetString("attendee_id"),
		PassProductID:       r.GetString("pass_product_id"),
		Status:              r.GetString("status"),
		Amount:              decimal.NewFromFloat(r.GetFloat("amount")),
		Currency:            r.GetString("currency"),
		PaystackRequestCode: r.GetString("paystack_request_code"),
		PaystackInvoiceURL:  r.GetString("paystack_invoice_url"),
		CreatedAt:           r.GetDateTime("created").Time(),
	}
	if meta := r.GetString("paystack_meta"); meta != "" {
		o.PaystackMeta = json.RawMessage(meta)
	}
	if paidAt := r.GetDateTime("paid_at").Time(); !paidAt.IsZero() {
		o.PaidAt = &paidAt
	}
	return o
}

func attendeeFromRecord(r *core.Record) *models.Attendee {
	return &models.Attendee{
		ID:            r.Id,
		FullName:      r.GetString("full_name"),
		Email:         r.GetString("email"),
		Phone:         r.GetString("phone"),
		Company:       r.GetString("company"),
		Role:          r.GetString("attendee_role"),
		Status:        r.GetString("status"),
		PassProductID: r.GetString("pass_product_id"),
		CreatedAt:     r.GetDateTime("created").Time(),
	}
}

func passFromRecord(r *core.Record) *models.PassProduct {
	return &models.PassProduct{
		ID:            r.Id,
		SKU:           r.GetString("sku"),
		Name:          r.GetString("name"),
		Amount:        decimal.NewFromFloat(r.GetFloat("amount")),
		Currency:      r.GetString("currency"),
		ValidStartDay: r.GetInt("valid_start_day"),
		ValidEndDay:   r.GetInt("valid_end_day"),
		IsActive:      r.GetBool("is_active"),
	}
}

func ticketFromRecord(r *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:            r.Id,
		AttendeeID:    r.GetString("attendee_id"),
		OrderID:       r.GetString("order_id"),
		PassProductID: r.GetString("pass_product_id"),
		SerialNumber:  r.GetString("serial_number"),
		ValidFrom:     r.GetDateTime("valid_from").Time(),
		ValidTo:       r.GetDateTime("valid_to").Time(),
		QRPayload:     r.GetString("qr_payload"),
		Checksum:      r.GetString("checksum"),
		ICSBase64:     r.GetString("ics_base64"),
		CreatedAt:     r.GetDateTime("created").Time(),
	}
}
