package preferences

import (
	"shiftsync/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	prefs := r.Group("/preferences")
	prefs.Use(middleware.ContextLogger(logger))
	{
		prefs.GET("/:user_id",
			middleware.RateLimitByIP(5, 20),
			handler.Get,
		)
		prefs.PUT("/:user_id",
			middleware.RateLimitByIP(1, 5),
			handler.Upsert,
		)
		prefs.DELETE("/:user_id",
			middleware.RateLimitByIP(0.5, 2),
			handler.Reset,
		)
	}
}
