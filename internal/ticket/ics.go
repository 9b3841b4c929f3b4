package ticket

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ICSInput describes the calendar attachment for an issued ticket.
type ICSInput struct {
	AttendeeName  string
	AttendeeEmail string
	PassName      string
	ValidFrom     time.Time
	ValidTo       time.Time
	SiteURL       string
	Timezone      string
}

const icsTimeLayout = "20060102T150405"

// BuildICS renders an iCalendar document for the ticket's validity window
// and returns both the raw text and its base64 form for mail attachment.
func BuildICS(in ICSInput) (raw, base64Content string) {
	loc, err := time.LoadLocation(in.Timezone)
	if err != nil {
		loc = time.UTC
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//AFCM//Tickets//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s", uuid.NewString()),
		fmt.Sprintf("SUMMARY:%s - AFCM", in.PassName),
		fmt.Sprintf("DTSTART;TZID=%s:%s", loc.String(), in.ValidFrom.In(loc).Format(icsTimeLayout)),
		fmt.Sprintf("DTEND;TZID=%s:%s", loc.String(), in.ValidTo.In(loc).Format(icsTimeLayout)),
		fmt.Sprintf("DTSTAMP:%sZ", time.Now().UTC().Format(icsTimeLayout)),
		fmt.Sprintf("DESCRIPTION:Keep this ticket handy. View ticket: %s/me/ticket", in.SiteURL),
		fmt.Sprintf("URL:%s/me/ticket", in.SiteURL),
		fmt.Sprintf("ATTENDEE;CN=%s;ROLE=REQ-PARTICIPANT:mailto:%s", in.AttendeeName, in.AttendeeEmail),
		"END:VEVENT",
		"END:VCALENDAR",
	}

	raw = strings.Join(lines, "\r\n")
	return raw, base64.StdEncoding.EncodeToString([]byte(raw))
}
