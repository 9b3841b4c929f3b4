package ticket

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildICS(t *testing.T) {
	raw, b64 := BuildICS(ICSInput{
		AttendeeName:  "Ada Obi",
		AttendeeEmail: "ada@example.com",
		PassName:      "Investor Pass",
		ValidFrom:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
		SiteURL:       "https://afcm.example",
		Timezone:      "Africa/Lagos",
	})

	assert.True(t, strings.HasPrefix(raw, "BEGIN:VCALENDAR"))
	assert.True(t, strings.HasSuffix(raw, "END:VCALENDAR"))
	assert.Contains(t, raw, "SUMMARY:Investor Pass - AFCM")
	assert.Contains(t, raw, "TZID=Africa/Lagos")
	assert.Contains(t, raw, "mailto:ada@example.com")
	assert.Contains(t, raw, "URL:https://afcm.example/me/ticket")
	assert.Contains(t, raw, "\r\n")

	decoded, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	assert.Equal(t, raw, string(decoded))
}

func TestBuildICS_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	raw, _ := BuildICS(ICSInput{
		AttendeeName:  "Ada Obi",
		AttendeeEmail: "ada@example.com",
		PassName:      "Day Pass",
		ValidFrom:     time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
		Timezone:      "Mars/Olympus",
	})

	assert.Contains(t, raw, "TZID=UTC")
}
