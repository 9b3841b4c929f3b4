package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"afcm-ticketing/internal/services"
	"afcm-ticketing/internal/services/paystack"
	"afcm-ticketing/internal/status"
	"afcm-ticketing/monitoring"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type WebhookHandler struct {
	app           *pocketbase.PocketBase
	issuance      *services.IssuanceService
	gateway       services.Gateway
	monitor       *monitoring.Monitor
	webhookSecret string
}

func NewWebhookHandler(app *pocketbase.PocketBase, issuance *services.IssuanceService, gateway services.Gateway, monitor *monitoring.Monitor, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		app:           app,
		issuance:      issuance,
		gateway:       gateway,
		monitor:       monitor,
		webhookSecret: webhookSecret,
	}
}

// webhookBody is the slice of the delivery payload the handler needs. Both
// historical field names for the request code are accepted. None of the
// body's status fields are trusted; the verify call is authoritative.
type webhookBody struct {
	Event string `json:"event"`
	Data  struct {
		RequestCode        string `json:"request_code"`
		PaymentRequestCode string `json:"payment_request_code"`
	} `json:"data"`
}

// maxWebhookBody caps delivery payloads; real ones are a few KB.
const maxWebhookBody = 1 << 20

// PaystackConfirmation handles gateway payment webhooks. Deliveries arrive
// at least once and may be replayed; every outcome other than a transient
// failure is acknowledged so the gateway stops redelivering.
func (h *WebhookHandler) PaystackConfirmation(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	// signature must cover the exact raw bytes, before any parsing
	raw, err := io.ReadAll(http.MaxBytesReader(e.Response, e.Request.Body, maxWebhookBody))
	if err != nil {
		h.monitor.TrackDelivery("malformed")
		return e.JSON(http.StatusBadRequest, map[string]any{"status": "error", "message": "unreadable body"})
	}

	signature := e.Request.Header.Get(paystack.WebhookSignatureHeader)
	if !paystack.VerifySignature(raw, signature, h.webhookSecret) {
		h.monitor.TrackDelivery("unauthorized")
		return e.JSON(http.StatusUnauthorized, map[string]any{"status": "error", "message": "invalid signature"})
	}

	var body webhookBody
	if err := json.Unmarshal(raw, &body); err != nil {
		h.monitor.TrackDelivery("malformed")
		return e.JSON(http.StatusBadRequest, map[string]any{"status": "error", "message": "malformed body"})
	}

	requestCode := body.Data.RequestCode
	if requestCode == "" {
		requestCode = body.Data.PaymentRequestCode
	}
	if requestCode == "" {
		slog.Warn("webhook without request code", "event", body.Event)
		h.monitor.TrackDelivery("ignored")
		return e.JSON(http.StatusOK, map[string]any{"status": "ok"})
	}

	started := time.Now()
	verification, err := h.gateway.VerifyPaymentRequest(ctx, requestCode)
	h.monitor.TrackGatewayVerify(time.Since(started))
	if err != nil {
		slog.Error("payment verification failed", "request_code", requestCode, "error", err)
		h.monitor.TrackDelivery("failed")
		return e.JSON(http.StatusBadGateway, map[string]any{"status": "error", "message": "verification unavailable"})
	}
	if !verification.Paid {
		h.monitor.TrackDelivery("unpaid")
		return e.JSON(http.StatusAccepted, map[string]any{"status": "ignored", "message": "invoice not paid yet"})
	}

	t, err := h.issuance.ProcessConfirmation(ctx, requestCode, services.VerificationFromGateway(verification))
	switch {
	case errors.Is(err, status.ErrOrderNotFound):
		// may belong to an unrelated integration; acknowledge and move on
		slog.Warn("no order for request code", "request_code", requestCode)
		h.monitor.TrackDelivery("ignored")
		return e.JSON(http.StatusOK, map[string]any{"status": "ok"})

	case errors.Is(err, status.ErrAlreadyProcessed):
		h.monitor.TrackDelivery("replayed")
		return e.JSON(http.StatusOK, map[string]any{"status": "ok"})

	case errors.Is(err, status.ErrDataIntegrity):
		slog.Error("issuance blocked on reference data", "request_code", requestCode, "error", err)
		h.monitor.TrackDelivery("failed")
		return e.JSON(http.StatusInternalServerError, map[string]any{"status": "error", "message": "issuance failed"})

	case err != nil:
		// the order transition may already be committed; a redelivery
		// replays issuance safely
		slog.Error("confirmation processing failed", "request_code", requestCode, "error", err)
		h.monitor.TrackDelivery("failed")
		return e.JSON(http.StatusServiceUnavailable, map[string]any{"status": "error", "message": "temporary failure"})
	}

	h.monitor.TrackDelivery("processed")
	return e.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"ticket_id": t.ID,
		"serial":    t.SerialNumber,
	})
}
