package quota

import (
	"context"
	"fmt"
	"strings"

	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
)

// LLMUsageRecorder 将模型调用用量写入流水表
type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	return r.usageRepo.Create(ctx, &entity.LLMUsageEvent{
		RequestID:        strings.TrimSpace(in.RequestID),
		Workflow:         orUnknown(in.Workflow),
		Provider:         orUnknown(in.Provider),
		Model:            orUnknown(in.Model),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	})
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "unknown"
}
