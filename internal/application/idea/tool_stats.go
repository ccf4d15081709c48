package idea

import (
	"context"

	"bizprompt-api/internal/domain/service"
)

// ToolStats 消费 idea.saved 事件，累加工具出现次数
type ToolStats struct {
	ranking service.ToolRanking
}

// NewToolStats 创建工具统计，ranking 为空时所有事件被忽略
func NewToolStats(ranking service.ToolRanking) *ToolStats {
	return &ToolStats{ranking: ranking}
}

// RecordSaved 处理一条保存事件
func (t *ToolStats) RecordSaved(ctx context.Context, evt *service.IdeaSavedEvent) error {
	if t.ranking == nil || evt == nil || len(evt.ToolsNeeded) == 0 {
		return nil
	}
	return t.ranking.Incr(ctx, evt.ToolsNeeded)
}
