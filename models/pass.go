package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PassProduct is a sellable pass tier. ValidStartDay and ValidEndDay are
// 1-based offsets into the event calendar, resolved against event_days at
// issuance time.
type PassProduct struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ValidStartDay int             `json:"valid_start_day"`
	ValidEndDay   int             `json:"valid_end_day"`
	IsActive      bool            `json:"is_active"`
}

// EventDay is one day of the event calendar with its doors window.
type EventDay struct {
	ID         string    `json:"id"`
	DayNumber  int       `json:"day_number"`
	DoorsOpen  time.Time `json:"doors_open"`
	DoorsClose time.Time `json:"doors_close"`
}

// EventSettings is the single-row site configuration.
type EventSettings struct {
	ID       string `json:"id"`
	Timezone string `json:"timezone"`
	SiteURL  string `json:"site_url"`
}
