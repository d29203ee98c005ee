package checkout

import (
	"time"

	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// RegisterRoutes mounts /checkout. Order placement is guarded by
// Idempotency-Key when rdb is set.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	co := r.Group("/checkout")
	co.Use(middleware.RateLimitBySession(5, 10))
	{
		co.GET("", handler.Detail)
		co.POST("", handler.Begin)
		co.DELETE("", handler.Abandon)
		co.PUT("/address", handler.SubmitAddress)

		place := []gin.HandlerFunc{middleware.RateLimitBySession(0.5, 2)}
		if rdb != nil {
			place = append(place, middleware.Idempotency(rdb, idempotencyTTL, logger))
		}
		co.POST("/orders", append(place, handler.PlaceOrder)...)

		pay := co.Group("/payment")
		pay.Use(middleware.RateLimitBySession(1, 3))
		{
			pay.POST("/confirm", handler.ConfirmPayment)
			pay.POST("/fail", handler.FailPayment)
		}
	}
}
