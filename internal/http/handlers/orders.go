package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/http/middleware"
	"bengkelku.id/app/internal/http/validation"
	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/shared/apperr"
)

type OrderHandler struct {
	Orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{Orders: svc}
}

type createOrderRequest struct {
	PackageID   string     `json:"packageId" binding:"required"`
	MechanicID  *string    `json:"mechanicId"`
	Description string     `json:"description" binding:"max=255"`
	Date        *time.Time `json:"date"`
}

type orderResponse struct {
	ID              string     `json:"id"`
	PackageID       string     `json:"packageId"`
	MechanicID      *string    `json:"mechanicId,omitempty"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	TotalAmount     int64      `json:"totalAmount"`
	LifecycleStatus string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	PaymentMethod   *string    `json:"paymentMethod,omitempty"`
	TransferProof   *string    `json:"transferProof,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toOrderResponse(o orders.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		PackageID:       o.PackageID,
		MechanicID:      o.MechanicID,
		Description:     o.Description,
		Date:            o.Date,
		TotalAmount:     o.TotalAmount,
		LifecycleStatus: o.LifecycleStatus,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		TransferProof:   o.TransferProof,
		CreatedAt:       o.CreatedAt,
	}
}

// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Invalid booking request", fields))
		return
	}

	in := orders.CreateInput{
		OwnerID:     userID,
		PackageID:   req.PackageID,
		MechanicID:  req.MechanicID,
		Description: req.Description,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	o, err := h.Orders.Create(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    toOrderResponse(o),
	})
}

// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	list, err := h.Orders.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}

	out := make([]orderResponse, len(list))
	for i, o := range list {
		out[i] = toOrderResponse(o)
	}
	c.JSON(http.StatusOK, out)
}

// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	o, err := h.Orders.MarkCompleted(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order completed successfully",
		"data":    toOrderResponse(o),
	})
}

// POST /orders/:id/archive
func (h *OrderHandler) Archive(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.Orders.Archive(c.Request.Context(), c.Param("id"), userID); err != nil {
		middleware.Fail(c, toAppErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order archived successfully"})
}
