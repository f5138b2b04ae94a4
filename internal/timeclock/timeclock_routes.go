package timeclock

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
	clock := r.Group("")
	clock.Use(middleware.ContextLogger(logger))
	{
		// Kiosk surface. Rate limited per kiosk so one stuck touchscreen
		// cannot starve the rest.
		clock.POST("/punch",
			middleware.RateLimitByKiosk(2, 5),
			handler.Punch,
		)
		clock.POST("/clock-in",
			middleware.RateLimitByKiosk(2, 5),
			handler.ClockIn,
		)
		clock.POST("/clock-out",
			middleware.RateLimitByKiosk(2, 5),
			handler.ClockOut,
		)

		// Admin surface.
		clock.GET("/active-sessions",
			middleware.RateLimitByIP(5, 20),
			handler.GetActiveSessions,
		)
		clock.GET("/sessions",
			middleware.RateLimitByIP(3, 10),
			handler.GetSessions,
		)
		clock.PUT("/sessions/:id",
			middleware.RateLimitByIP(0.5, 2),
			middleware.Idempotency(rdb),
			handler.EditSession,
		)
		clock.DELETE("/sessions/:id",
			middleware.RateLimitByIP(0.2, 1),
			handler.DeleteSession,
		)
		clock.GET("/totals",
			middleware.RateLimitByIP(3, 10),
			handler.GetTotals,
		)
	}
}
