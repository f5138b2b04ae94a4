package kiosk

import (
	"shiftsync/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	kiosks := r.Group("/kiosks")
	kiosks.Use(middleware.ContextLogger(logger))
	{
		kiosks.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)
		kiosks.GET("/:kiosk_id",
			middleware.RateLimitByIP(3, 10),
			handler.GetByKioskID,
		)
		kiosks.POST("",
			middleware.RateLimitByIP(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Register,
		)
		kiosks.PUT("/:kiosk_id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Update,
		)
		kiosks.DELETE("/:kiosk_id",
			middleware.RateLimitByIP(0.2, 1),
			handler.Delete,
		)
	}
}
