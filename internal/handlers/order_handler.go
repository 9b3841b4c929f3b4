package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"afcm-ticketing/internal/services"
	"afcm-ticketing/internal/status"
	"afcm-ticketing/security"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type OrderHandler struct {
	app     *pocketbase.PocketBase
	orders  *services.OrderService
	limiter *security.RateLimiter
}

func NewOrderHandler(app *pocketbase.PocketBase, orders *services.OrderService, limiter *security.RateLimiter) *OrderHandler {
	return &OrderHandler{
		app:     app,
		orders:  orders,
		limiter: limiter,
	}
}

// CreateOrder registers an attendee and raises a Paystack invoice for the
// selected pass.
func (h *OrderHandler) CreateOrder(e *core.RequestEvent) error {
	if h.limiter != nil && !h.limiter.Allow(e.Request.Context(), "orders:"+e.RealIP()) {
		return e.JSON(http.StatusTooManyRequests, map[string]any{
			"status":  "error",
			"message": "too many registration attempts, try again later",
		})
	}

	var req services.CreateOrderInput
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	result, err := h.orders.CreateOrder(e.Request.Context(), &req)
	switch {
	case errors.Is(err, status.ErrInvalidInput):
		return apis.NewBadRequestError(err.Error(), nil)

	case errors.Is(err, status.ErrPassUnavailable):
		return apis.NewNotFoundError("Pass not available", nil)

	case errors.Is(err, status.ErrUpstreamUnavailable):
		slog.Error("order creation failed upstream", "email", req.Email, "error", err)
		return e.JSON(http.StatusBadGateway, map[string]any{
			"status":  "error",
			"message": "payment provider unavailable",
		})

	case err != nil:
		slog.Error("order creation failed", "email", req.Email, "error", err)
		return apis.NewInternalServerError("Failed to create order", nil)
	}

	code := http.StatusCreated
	if result.Existing {
		code = http.StatusOK
	}
	return e.JSON(code, result)
}
