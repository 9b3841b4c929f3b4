package ticket

import (
	"fmt"
	"time"

	"afcm-ticketing/internal/status"
	"afcm-ticketing/models"
)

// ResolveWindow maps a pass's day offsets to the doors-open window of the
// event calendar. Both days must exist; a pass pointing at missing days is
// unrecoverable reference-data breakage.
func ResolveWindow(days []models.EventDay, startDay, endDay int) (validFrom, validTo time.Time, err error) {
	var start, end *models.EventDay
	for i := range days {
		switch days[i].DayNumber {
		case startDay:
			start = &days[i]
		case endDay:
			end = &days[i]
		}
	}
	// a single-day pass has startDay == endDay
	if startDay == endDay && start != nil {
		end = start
	}

	if start == nil || end == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("resolveWindow: days %d..%d not in event calendar: %w", startDay, endDay, status.ErrDataIntegrity)
	}

	return start.DoorsOpen, end.DoorsClose, nil
}
