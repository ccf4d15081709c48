package dto

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bizprompt-api/internal/application/idea"
	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
	wfmodel "bizprompt-api/internal/workflow/model"
	"bizprompt-api/pkg/logger"
)

// IdeaFilters 生成过滤条件
type IdeaFilters struct {
	Industry   string `json:"industry,omitempty"`
	Budget     string `json:"budget,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	AIUse      bool   `json:"ai_use,omitempty"`
}

func (f *IdeaFilters) toModel() *wfmodel.IdeaFilters {
	if f == nil {
		return nil
	}
	return &wfmodel.IdeaFilters{
		Industry:   f.Industry,
		Budget:     f.Budget,
		SkillLevel: f.SkillLevel,
		AIUse:      f.AIUse,
	}
}

func fromModelFilters(f *wfmodel.IdeaFilters) *IdeaFilters {
	if f == nil {
		return nil
	}
	return &IdeaFilters{
		Industry:   f.Industry,
		Budget:     f.Budget,
		SkillLevel: f.SkillLevel,
		AIUse:      f.AIUse,
	}
}

// GenerateIdeaRequest 生成/重新生成请求
type GenerateIdeaRequest struct {
	Prompt  string       `json:"prompt"`
	Filters *IdeaFilters `json:"filters,omitempty"`
}

// ToModel 转换为生成请求
func (r *GenerateIdeaRequest) ToModel() *wfmodel.IdeaRequest {
	return &wfmodel.IdeaRequest{
		Prompt:  r.Prompt,
		Filters: r.Filters.toModel(),
	}
}

// GenerateIdeaResponse 生成响应
type GenerateIdeaResponse struct {
	Idea wfmodel.GeneratedIdea `json:"idea"`
}

// RegenerateIdeaResponse 重新生成响应，调用方用它整体替换上一次结果
type RegenerateIdeaResponse struct {
	Idea      wfmodel.GeneratedIdea `json:"idea"`
	Prompt    string                `json:"prompt"`
	Filters   *IdeaFilters          `json:"filters,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// ToRegenerateIdeaResponse 转换重新生成结果
func ToRegenerateIdeaResponse(result *wfmodel.GenerationResult) *RegenerateIdeaResponse {
	return &RegenerateIdeaResponse{
		Idea:      result.Idea,
		Prompt:    result.Prompt,
		Filters:   fromModelFilters(result.Filters),
		Timestamp: result.Timestamp,
	}
}

// GenerationResultRequest 调用方持有的上一次生成结果，用于展示与导出
type GenerationResultRequest struct {
	Prompt    string                `json:"prompt"`
	Filters   *IdeaFilters          `json:"filters,omitempty"`
	Idea      wfmodel.GeneratedIdea `json:"idea"`
	Timestamp time.Time             `json:"timestamp"`
}

// ToModel 转换为生成结果
func (r *GenerationResultRequest) ToModel() wfmodel.GenerationResult {
	return wfmodel.GenerationResult{
		Prompt:    r.Prompt,
		Filters:   r.Filters.toModel(),
		Idea:      r.Idea,
		Timestamp: r.Timestamp,
	}
}

// SaveIdeaRequest 保存创意请求
type SaveIdeaRequest struct {
	Prompt  string                `json:"prompt"`
	Idea    wfmodel.GeneratedIdea `json:"idea"`
	Filters *IdeaFilters          `json:"filters,omitempty"`
}

// ToSaveInput 转换为保存参数
func (r *SaveIdeaRequest) ToSaveInput() idea.SaveInput {
	return idea.SaveInput{
		Prompt:  r.Prompt,
		Idea:    r.Idea,
		Filters: r.Filters.toModel(),
	}
}

// SaveIdeaResponse 保存响应
type SaveIdeaResponse struct {
	ID string `json:"id"`
}

// ListIdeasQuery 公开列表查询参数
type ListIdeasQuery struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Tool   string `form:"tool"`
}

// BindListIdeasQuery 绑定列表参数，非法数值按缺省处理
func BindListIdeasQuery(c *gin.Context) repository.ListOptions {
	var q ListIdeasQuery
	_ = c.ShouldBindQuery(&q)
	return repository.ListOptions{
		Limit:  q.Limit,
		Offset: q.Offset,
		Tool:   strings.TrimSpace(q.Tool),
	}
}

// IdeaResponse 已保存的创意快照
type IdeaResponse struct {
	ID            string                `json:"id"`
	Prompt        string                `json:"prompt"`
	GeneratedIdea wfmodel.GeneratedIdea `json:"generated_idea"`
	Filters       *IdeaFilters          `json:"filters,omitempty"`
	IsPublic      bool                  `json:"is_public"`
	ViewCount     int64                 `json:"view_count"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToIdeaResponse 转换实体，JSON 列损坏时记录告警并保留空值
func ToIdeaResponse(ctx context.Context, e *entity.BusinessIdea) *IdeaResponse {
	resp := &IdeaResponse{
		ID:        e.ID,
		Prompt:    e.Prompt,
		IsPublic:  e.IsPublic,
		ViewCount: e.ViewCount,
		CreatedAt: e.CreatedAt,
	}
	if len(e.GeneratedIdea) > 0 {
		if err := json.Unmarshal(e.GeneratedIdea, &resp.GeneratedIdea); err != nil {
			resp.GeneratedIdea = wfmodel.GeneratedIdea{}
			logger.Warn(ctx, "corrupt generated_idea column", "idea_id", e.ID, "error", err.Error())
		}
	}
	if len(e.Filters) > 0 {
		var f IdeaFilters
		if err := json.Unmarshal(e.Filters, &f); err != nil {
			logger.Warn(ctx, "corrupt filters column", "idea_id", e.ID, "error", err.Error())
		} else {
			resp.Filters = &f
		}
	}
	return resp
}

// IdeaListResponse 公开列表响应
type IdeaListResponse struct {
	Ideas []*IdeaResponse `json:"ideas"`
}

// ToIdeaListResponse 转换列表
func ToIdeaListResponse(ctx context.Context, items []*entity.BusinessIdea) *IdeaListResponse {
	ideas := make([]*IdeaResponse, 0, len(items))
	for _, item := range items {
		ideas = append(ideas, ToIdeaResponse(ctx, item))
	}
	return &IdeaListResponse{Ideas: ideas}
}

// PopularToolsResponse 热门工具响应
type PopularToolsResponse struct {
	Tools []service.ToolCount `json:"tools"`
}
