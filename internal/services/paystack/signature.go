package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// WebhookSignatureHeader carries the gateway's HMAC of the delivery body.
const WebhookSignatureHeader = "x-paystack-signature"

// VerifySignature checks an inbound webhook delivery against the shared
// secret. The HMAC-SHA512 is computed over the exact raw request bytes;
// verifying a re-serialized body is incorrect because byte-for-byte
// reproduction is not guaranteed. The header compare is case-insensitive
// over the full hex string. A missing header is a plain false.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(rawBody)
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(strings.ToLower(signatureHeader)))
}
