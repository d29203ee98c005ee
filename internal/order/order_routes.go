package order

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/session"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, store *session.Store) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireIdentified(store))

	// browsing own orders: 5 req/sec, burst 10
	orders.Use(middleware.RateLimitBySession(5, 10))
	{
		orders.GET("", handler.List)
		orders.GET("/:id", handler.Detail)

		// 1 request per 2 seconds
		orders.PATCH("/:id/cancel",
			middleware.RateLimitBySession(0.5, 2),
			handler.Cancel,
		)
		orders.POST("/:id/refund",
			middleware.RateLimitBySession(0.5, 2),
			handler.Refund,
		)
	}
}
