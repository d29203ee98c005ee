package cart

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	carts := r.Group("/cart")
	carts.Use(middleware.RateLimitBySession(10, 20))
	{
		carts.GET("", handler.Detail)
		carts.GET("/count", handler.Count)
		carts.DELETE("", handler.Delete)
		carts.PUT("/drawer", handler.Drawer)
		carts.POST("/items", handler.AddItem)

		items := carts.Group("/items/:productId")
		{
			items.PATCH("", handler.UpdateQty)
			items.POST("/increment", handler.Increment)
			items.POST("/decrement", handler.Decrement)
			items.DELETE("", handler.DeleteItem)
		}
	}
}
