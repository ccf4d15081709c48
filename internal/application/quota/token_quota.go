// Package quota 提供模型用量记录与每日 token 预算
package quota

import (
	"context"
	"fmt"
	"time"

	"bizprompt-api/internal/domain/repository"
)

// TokenBudgetExceededError 当日 token 预算已耗尽
type TokenBudgetExceededError struct {
	Max  int64
	Used int64
}

func (e TokenBudgetExceededError) Error() string {
	return fmt.Sprintf("daily token budget exceeded: used=%d max=%d", e.Used, e.Max)
}

// TokenBudgetChecker 按 UTC 自然日统计 token 用量
type TokenBudgetChecker struct {
	llmRepo repository.LLMUsageEventRepository
	max     int64
	now     func() time.Time
}

// NewTokenBudgetChecker max <= 0 时不做限制
func NewTokenBudgetChecker(llmRepo repository.LLMUsageEventRepository, max int64) *TokenBudgetChecker {
	return &TokenBudgetChecker{
		llmRepo: llmRepo,
		max:     max,
		now:     time.Now,
	}
}

// Enabled 是否配置了预算
func (c *TokenBudgetChecker) Enabled() bool {
	return c != nil && c.max > 0 && c.llmRepo != nil
}

// CheckDailyTokens 返回当日已用量，超过预算时返回 TokenBudgetExceededError
func (c *TokenBudgetChecker) CheckDailyTokens(ctx context.Context) (used int64, err error) {
	if !c.Enabled() {
		return 0, nil
	}

	now := c.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	used, err = c.llmRepo.SumTokens(ctx, start, end)
	if err != nil {
		return 0, err
	}
	if used >= c.max {
		return used, TokenBudgetExceededError{Max: c.max, Used: used}
	}
	return used, nil
}
