package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func Router(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.POST("/checkout", h.Checkout)
	r.POST("/payment/verify", h.VerifyPayment)

	orders := r.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/items/:productId/cancel", h.CancelItem)
		orders.POST("/:id/items/:productId/return", h.RequestReturn)
	}

	wallet := r.Group("/wallet")
	{
		wallet.GET("", h.WalletBalance)
		wallet.GET("/history", h.WalletHistory)
		wallet.POST("/topup", h.TopUp)
	}

	// админские ручки; авторизация роли — на вышестоящем шлюзе
	admin := r.Group("/admin")
	{
		admin.GET("/refunds", h.ListRefunds)
		admin.POST("/refunds/:id/approve", h.ApproveRefund)
		admin.POST("/refunds/:id/reject", h.RejectRefund)
		admin.POST("/orders/:id/items/:productId/advance", h.AdvanceItemStatus)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}
