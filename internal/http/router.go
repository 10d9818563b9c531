package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/http/handlers"
	"bengkelku.id/app/internal/http/middleware"
)

type Deps struct {
	Logger    *slog.Logger
	JWTSecret []byte
	Users     middleware.UserFinder

	Orders   *handlers.OrderHandler
	Payments *handlers.PaymentHandler
	Webhooks *handlers.WebhookHandler
	Catalog  *handlers.CatalogHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// public
	r.GET("/packages", d.Catalog.ListPackages)
	r.GET("/mechanics", d.Catalog.ListMechanics)
	r.GET("/mechanics/:id", d.Catalog.GetMechanic)

	// gateway webhook: unauthenticated, payload-verified
	r.POST("/payment/notification", d.Webhooks.Handle)

	auth := r.Group("/", middleware.RequireAuth(d.JWTSecret, d.Users))
	{
		auth.POST("/orders", d.Orders.Create)
		auth.GET("/orders", d.Orders.List)
		auth.GET("/orders/:id", d.Orders.Get)
		auth.POST("/orders/:id/complete", d.Orders.Complete)
		auth.POST("/orders/:id/archive", d.Orders.Archive)

		auth.POST("/orders/:id/payment/initiate", d.Payments.Initiate)
		auth.GET("/orders/:id/payment-status", d.Payments.Status)
		auth.POST("/orders/:id/payment/done", d.Payments.Done)
	}

	return r
}
