package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByIP(5, 20), // slightly looser, kiosks poll this
			handler.GetOptions,
		)

		employees.GET("/:pin",
			middleware.RateLimitByIP(3, 10),
			handler.GetByPin,
		)

		employees.GET("/:pin/rate",
			middleware.RateLimitByIP(3, 10),
			handler.GetCurrentRate,
		)

		employees.POST("",
			middleware.RateLimitByIP(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.PUT("/:pin",
			middleware.RateLimitByIP(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Update,
		)

		employees.DELETE("/:pin",
			middleware.RateLimitByIP(0.2, 1),
			handler.Delete,
		)
	}
}
