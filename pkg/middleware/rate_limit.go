package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"eezlegal/pkg/metrics"
	"eezlegal/pkg/utils"
)

// RateLimit shares one token bucket across every request it guards.
func RateLimit(limiter *rate.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.RateLimited.Inc()
			log.Warn("rate limited", zap.String("path", c.FullPath()), zap.String("client_ip", c.ClientIP()))
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
