package service

import (
	"context"
	"time"
)

// IdeaSavedEvent 创意保存成功后发布的事件
type IdeaSavedEvent struct {
	IdeaID      string    `json:"idea_id"`
	Name        string    `json:"name,omitempty"`
	Category    string    `json:"category,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	ToolsNeeded []string  `json:"tools_needed,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// IdeaEventPublisher 发布创意事件
type IdeaEventPublisher interface {
	PublishIdeaSaved(ctx context.Context, evt *IdeaSavedEvent) error
}

// ToolCount 工具出现次数
type ToolCount struct {
	Tool  string  `json:"tool"`
	Count float64 `json:"count"`
}

// ToolRanking 统计已保存创意中各工具的出现次数
type ToolRanking interface {
	Incr(ctx context.Context, tools []string) error
	Top(ctx context.Context, n int) ([]ToolCount, error)
}
