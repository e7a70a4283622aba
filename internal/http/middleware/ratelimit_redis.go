package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mindpal/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

const redisTimeout = 500 * time.Millisecond

// ConnectRedis returns a client for addr, or nil when addr is empty or the
// server does not answer. A nil client makes RateLimiter fall back to
// in-process counting.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limits", "addr", addr, logger.Err(err))
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// RateLimiter is a fixed-window limiter backed by Redis INCR/EXPIRE. Redis
// errors let the request through. Without Redis it uses in-process token
// buckets.
type RateLimiter struct {
	redis *redis.Client
	mem   *memoryLimiter
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redis: client, mem: newMemoryLimiter()}
}

// PerIP limits requests by client IP.
// key format: rl:<scope>:<window_seconds>:<ip>
func (l *RateLimiter) PerIP(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		l.limit(c, scope, c.ClientIP(), maxRequests, window)
	}
}

func (l *RateLimiter) limit(c *gin.Context, scope, ident string, maxRequests int, window time.Duration) {
	key := "rl:" + scope + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident

	val, err := l.count(c.Request.Context(), key, maxRequests, window)
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		logger.FromContext(c.Request.Context()).Warn("rate limiter failed open", "scope", scope, logger.Err(err))
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(scope).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      "rate limit exceeded",
			"retryAfter": int(window.Seconds()),
		})
		return
	}

	RLRequests.WithLabelValues(scope).Inc()
	c.Next()
}

func (l *RateLimiter) count(ctx context.Context, key string, maxRequests int, window time.Duration) (int64, error) {
	if l.redis == nil {
		return l.mem.incr(key, maxRequests, window), nil
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	val, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first hit opens the window
		l.redis.Expire(ctx, key, window)
	}
	return val, nil
}
