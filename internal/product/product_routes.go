package product

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		// browsing is public; limit per IP against scraping
		products.GET("/:slug",
			middleware.RateLimitByIP(10, 20),
			handler.GetBySlug,
		)
		products.POST("/:slug/price",
			middleware.RateLimitByIP(20, 40),
			handler.Price,
		)
	}
}
