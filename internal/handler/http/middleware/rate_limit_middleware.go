package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	"github.com/MattHalloran/NLN-sub003/internal/utils/metrics"
)

// RateLimiter is the contract the middleware needs from the Redis limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, rule config.RateLimitRule) (bool, error)
}

// RateLimitMiddleware caps requests per client IP under the given rule. The
// limiter fails open on backend errors, so a Redis outage degrades to
// unlimited rather than blocking logins.
func RateLimitMiddleware(limiter RateLimiter, name string, rule config.RateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rule.Enabled {
			c.Next()
			return
		}

		key := name + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.Error("rate limiter check failed", zap.Error(err), zap.String("key", key))
		}
		if !allowed {
			metrics.RateLimitExceededTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
				"code":  "RateLimitExceeded",
			})
			return
		}

		c.Next()
	}
}
