package auth

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		// identification is cheap to abuse for phone enumeration: strict per IP
		auth.POST("/identify",
			middleware.RateLimitByIP(0.2, 3),
			handler.Identify,
		)

		// 1 request per 30 seconds, the backend sends an SMS each time
		auth.POST("/otp/send",
			middleware.RateLimitByIP(1.0/30, 1),
			handler.RequestOTP,
		)
		auth.POST("/otp/verify",
			middleware.RateLimitByIP(0.2, 5),
			handler.VerifyOTP,
		)

		auth.GET("/me",
			middleware.RateLimitBySession(5, 10),
			handler.Me,
		)
		auth.POST("/logout",
			middleware.RateLimitBySession(1, 2),
			handler.Logout,
		)
	}
}
