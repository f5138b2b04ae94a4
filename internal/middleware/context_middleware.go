package middleware

import (
	"shiftsync/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying the request id
// and the originating kiosk (if the X-Kiosk-ID header is present), and
// propagates both through the standard context for the service layer.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		kioskID := c.GetHeader("X-Kiosk-ID")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("kiosk_id", kioskID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithKioskID(ctx, kioskID)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
