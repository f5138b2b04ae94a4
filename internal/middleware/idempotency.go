package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency guards mutating endpoints against double submission (a
// double-tapped save button on the admin dashboard). When a request
// carries an Idempotency-Key header, a short-lived redis lock rejects a
// second request with the same key while the first is still in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		lockKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)

		// Short expiry so a crashed request releases the lock by itself.
		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if err != nil {
			// Redis being down must not block writes.
			c.Next()
			return
		}

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "This request is already being processed",
			})
			return
		}

		c.Next()

		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
