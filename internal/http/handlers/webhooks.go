package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/modules/payments"
)

// Midtrans notification payloads are a few KB; anything near this limit is
// garbage.
const maxNotificationBody = 1 << 20

type WebhookHandler struct {
	Logger   *slog.Logger
	Payments *payments.Service
}

func NewWebhookHandler(logger *slog.Logger, svc *payments.Service) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Payments: svc}
}

// POST /payment/notification
// Public endpoint; the raw body is verified against the gateway's signature
// contract before anything is read from it. Idempotent replays return 200.
// Write failures return 5xx so the gateway redelivers.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNotificationBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "invalid body"})
		return
	}

	if err := h.Payments.HandleNotification(c.Request.Context(), body); err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidNotification):
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "invalid signature or payload"})
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "ERROR", "message": "Order not found"})
		case errors.Is(err, payments.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"status": "RETRY"})
		default:
			h.Logger.Error("notification apply failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
