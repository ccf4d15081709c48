package redis

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"bizprompt-api/internal/domain/service"
)

const toolRankingKey = "ideas:tools:ranking"

// ToolRanking 用 ZSET 统计工具出现次数，工具名统一为小写
type ToolRanking struct {
	client *Client
}

// NewToolRanking 创建工具统计
func NewToolRanking(client *Client) *ToolRanking {
	return &ToolRanking{client: client}
}

func (r *ToolRanking) Incr(ctx context.Context, tools []string) error {
	ctx, span := tracer.Start(ctx, "redis.ToolRanking.Incr")
	defer span.End()

	seen := make(map[string]struct{}, len(tools))
	pipe := r.client.rdb.Pipeline()
	for _, t := range tools {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		pipe.ZIncrBy(ctx, toolRankingKey, 1, name)
	}
	if len(seen) == 0 {
		return nil
	}
	span.SetAttributes(attribute.Int("tools.count", len(seen)))

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *ToolRanking) Top(ctx context.Context, n int) ([]service.ToolCount, error) {
	ctx, span := tracer.Start(ctx, "redis.ToolRanking.Top")
	defer span.End()

	zs, err := r.client.rdb.ZRevRangeWithScores(ctx, toolRankingKey, 0, int64(n-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]service.ToolCount, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		out = append(out, service.ToolCount{Tool: name, Count: z.Score})
	}
	return out, nil
}
