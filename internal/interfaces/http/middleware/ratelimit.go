package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"bizprompt-api/internal/interfaces/http/dto"
	"bizprompt-api/pkg/logger"
	"bizprompt-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	// Scope 限流 key 的作用域，同一作用域内的路由共享配额
	Scope string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 限流，限流器故障时放行
func RateLimit(cfg RateLimitConfig, limiter RateLimiter, keyFn func(scope, clientKey string) string) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Scope == "" {
		cfg.Scope = "generate"
	}
	if keyFn == nil {
		keyFn = func(scope, clientKey string) string { return "ratelimit:" + scope + ":" + clientKey }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := keyFn(cfg.Scope, c.ClientIP())

		allowed, err := limiter.Allow(ctx, key, cfg.Requests, cfg.Window)
		if err != nil {
			logger.Warn(ctx, "rate limiter unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(c.FullPath()).Inc()
			dto.TooManyRequests(c, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
