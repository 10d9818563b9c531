package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/http/middleware"
	"bengkelku.id/app/internal/modules/payments"
)

type PaymentHandler struct {
	Payments       *payments.Service
	GatewayTimeout time.Duration
}

func NewPaymentHandler(svc *payments.Service, gatewayTimeout time.Duration) *PaymentHandler {
	if gatewayTimeout <= 0 {
		gatewayTimeout = 15 * time.Second
	}
	return &PaymentHandler{Payments: svc, GatewayTimeout: gatewayTimeout}
}

// POST /orders/:id/payment/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	// bound the gateway call; a timeout surfaces as gateway-unavailable and
	// is safe to retry since nothing local was written yet
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.GatewayTimeout)
	defer cancel()

	res, err := h.Payments.InitiatePayment(ctx, c.Param("id"), userID)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment initiated successfully",
		"clientToken": res.Token,
		"orderId":     res.OrderID,
		"amount":      res.Amount,
	})
}

// GET /orders/:id/payment-status
func (h *PaymentHandler) Status(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	v, err := h.Payments.PollStatus(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":         v.OrderID,
		"paymentStatus":   v.PaymentStatus,
		"lifecycleStatus": v.LifecycleStatus,
		"clientToken":     v.ClientToken,
	})
}

// POST /orders/:id/payment/done
// Multipart: optional transferProof file + paymentMethod field.
func (h *PaymentHandler) Done(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	in := payments.ManualPaymentInput{
		OrderID:     c.Param("id"),
		RequesterID: userID,
		Method:      c.PostForm("paymentMethod"),
	}

	if fh, err := c.FormFile("transferProof"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			middleware.Fail(c, toAppErr(err))
			return
		}
		defer f.Close()
		in.Proof = f
		in.ProofFilename = fh.Filename
		in.ProofContentType = fh.Header.Get("Content-Type")
		in.ProofSize = fh.Size
	}

	o, err := h.Payments.ManualPayment(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment done successfully",
		"data":    toOrderResponse(o),
	})
}
