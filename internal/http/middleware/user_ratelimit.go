package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PerUser limits requests per authenticated user rather than per IP.
// JWT must run before it.
func (l *RateLimiter) PerUser(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(UserIDKey)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		l.limit(c, scope, "user:"+strconv.FormatInt(userID, 10), maxRequests, window)
	}
}
