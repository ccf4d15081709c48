package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"bizprompt-api/internal/application/quota"
	"bizprompt-api/internal/interfaces/http/dto"
	"bizprompt-api/pkg/logger"
)

// TokenBudget 每日 token 预算检查
type TokenBudget interface {
	Enabled() bool
	CheckDailyTokens(ctx context.Context) (int64, error)
}

// DailyTokenBudget 预算耗尽时拒绝生成类请求，统计失败时放行
func DailyTokenBudget(budget TokenBudget) gin.HandlerFunc {
	return func(c *gin.Context) {
		if budget == nil || !budget.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if _, err := budget.CheckDailyTokens(ctx); err != nil {
			var exceeded quota.TokenBudgetExceededError
			if errors.As(err, &exceeded) {
				logger.Warn(ctx, "daily token budget exhausted", "used", exceeded.Used, "max", exceeded.Max)
				dto.TooManyRequests(c, "Daily generation budget exhausted, please try again tomorrow")
				return
			}
			logger.Warn(ctx, "token budget check failed, allowing request", "error", err.Error())
		}

		c.Next()
	}
}
