package repository

import (
	"context"
	"time"

	"bizprompt-api/internal/domain/entity"
)

type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	SumTokens(ctx context.Context, startInclusive, endExclusive time.Time) (int64, error)
}
