package models

import "time"

// Attendee statuses. The legacy uppercase values are kept because issued
// badges and the check-in app key off them.
const (
	AttendeeStatusUnpaid = "UNPAID"
	AttendeeStatusPaid   = "PAID"
)

type Attendee struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	Role          string    `json:"attendee_role"` // investor, buyer, seller, attendee
	Status        string    `json:"status"`        // UNPAID, PAID
	PassProductID string    `json:"pass_product_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
