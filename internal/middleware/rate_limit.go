package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/logger"
)

// redisTimeout bounds each limiter round trip so a slow Redis cannot stall requests
const redisTimeout = 250 * time.Millisecond

// RateLimiter is a fixed-window request limiter backed by Redis. Requests are
// let through when Redis is unavailable.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window. A nil client disables it.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, now: time.Now}
}

// Allow counts one hit for id under resource and reports whether it is within the limit
func (l *RateLimiter) Allow(ctx context.Context, resource, id string) (allowed bool, remaining int, err error) {
	bucket := l.now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("rl:%s:%s:%d", resource, id, bucket)

	var incr *redis.IntCmd
	_, err = l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, err
	}

	count := int(incr.Val())
	remaining = l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}

// Middleware enforces the limit per client IP for the named resource
func (l *RateLimiter) Middleware(resource string) gin.HandlerFunc {
	log := logger.Component("ratelimit")

	return func(c *gin.Context) {
		if l == nil || l.rdb == nil || l.limit <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisTimeout)
		allowed, remaining, err := l.Allow(ctx, resource, c.ClientIP())
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("resource", resource).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrorCodeTooManyRequests, "Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
