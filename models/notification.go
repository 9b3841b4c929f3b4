package models

import (
	"encoding/json"
	"time"
)

// Notification statuses. A notification record is decoupled from the ticket
// lifecycle: a failed enqueue never rolls back issuance.
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

type Notification struct {
	ID             string          `json:"id"`
	RecipientEmail string          `json:"recipient_email"`
	Subject        string          `json:"subject"`
	BodyText       string          `json:"body_text"`
	Status         string          `json:"status"` // pending, sent, failed
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NotificationMeta is the metadata payload recorded for issuance events.
type NotificationMeta struct {
	Type       string `json:"type"`
	OrderID    string `json:"order_id"`
	AttendeeID string `json:"attendee_id"`
	TicketID   string `json:"ticket_id"`
}
