package wishlist

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	wishlists := r.Group("/wishlists")
	{
		wishlists.GET("/items",
			middleware.RateLimitBySession(5, 10),
			handler.List,
		)

		// guests may call add; the service parks it behind identification
		itemActionLimit := middleware.RateLimitBySession(1, 3)

		wishlists.POST("/items",
			itemActionLimit,
			handler.Create,
		)
		wishlists.DELETE("/items/:productId",
			itemActionLimit,
			handler.Delete,
		)
	}
}
