package models

import "time"

// Ticket is minted exactly once per order and is immutable afterwards.
// QRPayload holds the signed token presented at the gate; Checksum is the
// token's signature segment, stored separately for quick audit queries.
type Ticket struct {
	ID            string    `json:"id"`
	AttendeeID    string    `json:"attendee_id"`
	OrderID       string    `json:"order_id"`
	PassProductID string    `json:"pass_product_id"`
	SerialNumber  string    `json:"serial_number"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	QRPayload     string    `json:"qr_payload"`
	Checksum      string    `json:"checksum"`
	ICSBase64     string    `json:"ics_base64,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
