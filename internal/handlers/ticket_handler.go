package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"afcm-ticketing/internal/status"
	"afcm-ticketing/internal/store"
	"afcm-ticketing/internal/ticket"
	"afcm-ticketing/models"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketHandler struct {
	app      *pocketbase.PocketBase
	store    store.Store
	qrSecret string
}

func NewTicketHandler(app *pocketbase.PocketBase, st store.Store, qrSecret string) *TicketHandler {
	return &TicketHandler{
		app:      app,
		store:    st,
		qrSecret: qrSecret,
	}
}

// GetOrderTicket returns the ticket issued for an order, if any.
func (h *TicketHandler) GetOrderTicket(e *core.RequestEvent) error {
	orderID := e.Request.PathValue("orderId")
	if orderID == "" {
		return apis.NewBadRequestError("Order ID required", nil)
	}

	ctx := e.Request.Context()
	order, err := h.store.OrderByID(ctx, orderID)
	if errors.Is(err, status.ErrOrderNotFound) {
		return apis.NewNotFoundError("Order not found", nil)
	}
	if err != nil {
		slog.Error("order lookup failed", "order_id", orderID, "error", err)
		return apis.NewInternalServerError("Failed to load order", nil)
	}

	t, err := h.store.TicketByOrder(ctx, order.ID)
	if err != nil {
		slog.Error("ticket lookup failed", "order_id", orderID, "error", err)
		return apis.NewInternalServerError("Failed to load ticket", nil)
	}
	if t == nil {
		if order.Status == models.OrderStatusPending {
			return e.JSON(http.StatusAccepted, map[string]any{
				"status":  "pending",
				"message": "payment not confirmed yet",
			})
		}
		return apis.NewNotFoundError("Ticket not issued", nil)
	}

	return e.JSON(http.StatusOK, t)
}

type verifyTicketRequest struct {
	Token string `json:"token"`
}

// VerifyTicket validates a gate-scanned QR token and returns its claims
// alongside the stored ticket.
func (h *TicketHandler) VerifyTicket(e *core.RequestEvent) error {
	var req verifyTicketRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Token == "" {
		return apis.NewBadRequestError("Token required", nil)
	}

	claims, err := ticket.DecodeToken(req.Token, h.qrSecret)
	switch {
	case errors.Is(err, status.ErrTokenExpired):
		return e.JSON(http.StatusOK, map[string]any{
			"valid":  false,
			"reason": "outside validity window",
		})

	case errors.Is(err, status.ErrInvalidToken):
		return e.JSON(http.StatusOK, map[string]any{
			"valid":  false,
			"reason": "invalid token",
		})

	case err != nil:
		slog.Error("token verification failed", "error", err)
		return apis.NewInternalServerError("Verification failed", nil)
	}

	t, err := h.store.TicketByOrder(e.Request.Context(), claims.OrderID)
	if err != nil {
		slog.Error("ticket lookup failed", "order_id", claims.OrderID, "error", err)
		return apis.NewInternalServerError("Verification failed", nil)
	}
	if t == nil || t.ID != claims.TicketID {
		return e.JSON(http.StatusOK, map[string]any{
			"valid":  false,
			"reason": "no matching ticket on record",
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"valid":       true,
		"ticket_id":   t.ID,
		"serial":      t.SerialNumber,
		"attendee_id": claims.AttendeeID,
		"valid_from":  t.ValidFrom,
		"valid_to":    t.ValidTo,
	})
}
