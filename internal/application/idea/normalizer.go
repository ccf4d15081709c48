// Package idea 实现创意生成、展示与保存的应用服务
package idea

import (
	"strings"

	wfmodel "bizprompt-api/internal/workflow/model"
	workflowprompt "bizprompt-api/internal/workflow/prompt"
)

// Instruction 发送给模型的指令载荷
type Instruction struct {
	System  string
	Prompt  string
	Filters *wfmodel.IdeaFilters
}

// Normalizer 校验请求并构造指令
type Normalizer struct {
	prompts *workflowprompt.Registry
}

// NewNormalizer 创建请求规范化器
func NewNormalizer(prompts *workflowprompt.Registry) *Normalizer {
	if prompts == nil {
		prompts = workflowprompt.NewRegistry()
	}
	return &Normalizer{prompts: prompts}
}

// Normalize 提示词去空白后为空时返回 ErrValidation；
// 提示词本身原样保留，作为 user 消息发送。
func (n *Normalizer) Normalize(req *wfmodel.IdeaRequest) (*Instruction, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrValidation
	}

	base, err := n.prompts.SystemText(workflowprompt.PromptIdeaV1)
	if err != nil {
		return nil, err
	}

	return &Instruction{
		System:  workflowprompt.BuildInstruction(base, req.Filters),
		Prompt:  req.Prompt,
		Filters: req.Filters,
	}, nil
}
