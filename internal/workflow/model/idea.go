// Package model 定义工作流层的输入输出模型
package model

import "time"

// IdeaFilters 生成创意时的可选约束
// 字段缺失或为空均表示不施加该约束
type IdeaFilters struct {
	Industry   string `json:"industry,omitempty"`
	Budget     string `json:"budget,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	AIUse      bool   `json:"ai_use,omitempty"`
}

// IdeaRequest 创意生成请求
type IdeaRequest struct {
	Prompt  string       `json:"prompt"`
	Filters *IdeaFilters `json:"filters,omitempty"`
}

// GeneratedIdea 从模型输出解码的创意记录
// 所有字段均可能缺失，解码时不做补全
type GeneratedIdea struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Monetization string   `json:"monetization,omitempty"`
	ToolsNeeded  []string `json:"tools_needed,omitempty"`
	TimeToMVP    string   `json:"time_to_mvp,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// GenerationResult 一次生成的结果快照，由调用方持有
type GenerationResult struct {
	Prompt    string        `json:"prompt"`
	Filters   *IdeaFilters  `json:"filters,omitempty"`
	Idea      GeneratedIdea `json:"idea"`
	Timestamp time.Time     `json:"timestamp"`
}

// IdeaGenerateInput 生成链输入
type IdeaGenerateInput struct {
	Provider    string
	Instruction string
	Prompt      string
}
