package ticket

import (
	"strings"
	"testing"
	"time"

	"afcm-ticketing/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() Claims {
	return Claims{
		TicketID:   "11111111-2222-3333-4444-555555555555",
		AttendeeID: "att_0001",
		OrderID:    "ord_0001",
		NotBefore:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).Unix(),
		Expiry:     time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC).Unix(),
	}
}

func TestToken_RoundTrip(t *testing.T) {
	claims := testClaims()

	token, err := EncodeToken(claims, "qr-secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, TokenVersion+"."))
	assert.Len(t, strings.Split(token, "."), 3)

	decoded, err := decodeTokenAt(token, "qr-secret", time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, claims, *decoded)
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := EncodeToken(testClaims(), "qr-secret")
	require.NoError(t, err)

	_, err = decodeTokenAt(token, "other-secret", time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, status.ErrInvalidToken)
}

func TestToken_TamperedPayload(t *testing.T) {
	a, err := EncodeToken(testClaims(), "qr-secret")
	require.NoError(t, err)

	other := testClaims()
	other.AttendeeID = "att_0002"
	b, err := EncodeToken(other, "qr-secret")
	require.NoError(t, err)

	// signature from one token, payload from another
	forged := strings.Split(a, ".")[0] + "." + strings.Split(a, ".")[1] + "." + strings.Split(b, ".")[2]
	_, err = decodeTokenAt(forged, "qr-secret", time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, status.ErrInvalidToken)
}

func TestToken_Expired(t *testing.T) {
	token, err := EncodeToken(testClaims(), "qr-secret")
	require.NoError(t, err)

	_, err = decodeTokenAt(token, "qr-secret", time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, status.ErrTokenExpired)
}

func TestToken_BadShapes(t *testing.T) {
	for _, token := range []string{
		"",
		"AFCM1",
		"AFCM1.onlytwo",
		"AFCM0.sig.payload",
		"AFCM1.sig.!!!not-base64url!!!",
	} {
		_, err := decodeTokenAt(token, "qr-secret", time.Now())
		assert.ErrorIs(t, err, status.ErrInvalidToken, "token %q", token)
	}
}

func TestChecksum(t *testing.T) {
	token, err := EncodeToken(testClaims(), "qr-secret")
	require.NoError(t, err)

	sum := Checksum(token)
	assert.Equal(t, strings.Split(token, ".")[1], sum)
	assert.Empty(t, Checksum("not-a-token"))
}
