// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizprompt-api/internal/application/idea"
	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
	"bizprompt-api/internal/interfaces/http/dto"
	wfmodel "bizprompt-api/internal/workflow/model"
	"bizprompt-api/pkg/errors"
	"bizprompt-api/pkg/logger"
)

const (
	msgGenerateFailed = "Failed to generate business idea"
	msgSaveFailed     = "Failed to save idea"
	msgInvalidBody    = "Invalid request body"
)

// IdeaGenerator 创意生成能力
type IdeaGenerator interface {
	Generate(ctx context.Context, req *wfmodel.IdeaRequest) (*wfmodel.GeneratedIdea, error)
	Regenerate(ctx context.Context, req *wfmodel.IdeaRequest) (*wfmodel.GenerationResult, error)
}

// IdeaStore 创意持久化能力
type IdeaStore interface {
	Save(ctx context.Context, in idea.SaveInput) (string, error)
	Get(ctx context.Context, id string) (*entity.BusinessIdea, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error)
	PopularTools(ctx context.Context, n int) ([]service.ToolCount, error)
}

// IdeaHandler 创意处理器
type IdeaHandler struct {
	generator IdeaGenerator
	store     IdeaStore
}

// NewIdeaHandler 创建创意处理器
func NewIdeaHandler(generator IdeaGenerator, store IdeaStore) *IdeaHandler {
	return &IdeaHandler{
		generator: generator,
		store:     store,
	}
}

// Generate 生成创意
// @Summary 生成创意
// @Tags Ideas
// @Accept json
// @Produce json
// @Param body body dto.GenerateIdeaRequest true "提示词与过滤条件"
// @Success 200 {object} dto.GenerateIdeaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/generate [post]
func (h *IdeaHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, msgInvalidBody)
		return
	}

	generated, err := h.generator.Generate(ctx, req.ToModel())
	if err != nil {
		h.generationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateIdeaResponse{Idea: *generated})
}

// Regenerate 使用相同的提示词与过滤条件重新生成
// @Summary 重新生成创意
// @Tags Ideas
// @Accept json
// @Produce json
// @Param body body dto.GenerateIdeaRequest true "上一次的提示词与过滤条件"
// @Success 200 {object} dto.RegenerateIdeaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/regenerate [post]
func (h *IdeaHandler) Regenerate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, msgInvalidBody)
		return
	}

	result, err := h.generator.Regenerate(ctx, req.ToModel())
	if err != nil {
		h.generationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegenerateIdeaResponse(result))
}

// generationFailed 校验错误原样返回，其余错误统一为通用失败信息
func (h *IdeaHandler) generationFailed(c *gin.Context, err error) {
	if stderrors.Is(err, idea.ErrValidation) {
		dto.BadRequest(c, idea.ErrValidation.Message)
		return
	}
	logger.Error(c.Request.Context(), "idea generation failed", err, "outcome", idea.Outcome(err))
	dto.InternalError(c, msgGenerateFailed)
}

// View 计算展示信息
// @Summary 创意展示信息
// @Tags Ideas
// @Accept json
// @Produce json
// @Param body body dto.GenerationResultRequest true "生成结果"
// @Success 200 {object} idea.View
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/ideas/view [post]
func (h *IdeaHandler) View(c *gin.Context) {
	var req dto.GenerationResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, msgInvalidBody)
		return
	}
	c.JSON(http.StatusOK, idea.NewView(req.ToModel()))
}

// Export 导出纯文本
// @Summary 导出创意文本
// @Tags Ideas
// @Accept json
// @Produce plain
// @Param body body dto.GenerationResultRequest true "生成结果"
// @Success 200 {string} string
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/ideas/export [post]
func (h *IdeaHandler) Export(c *gin.Context) {
	var req dto.GenerationResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, msgInvalidBody)
		return
	}
	c.String(http.StatusOK, idea.ExportText(req.Idea, req.Prompt))
}

// Save 保存创意快照
// @Summary 保存创意
// @Tags Ideas
// @Accept json
// @Produce json
// @Param body body dto.SaveIdeaRequest true "创意快照"
// @Success 201 {object} dto.SaveIdeaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ideas [post]
func (h *IdeaHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, msgInvalidBody)
		return
	}

	id, err := h.store.Save(ctx, req.ToSaveInput())
	if err != nil {
		if stderrors.Is(err, idea.ErrValidation) {
			dto.BadRequest(c, idea.ErrValidation.Message)
			return
		}
		logger.Error(ctx, "failed to save idea", err)
		dto.InternalError(c, msgSaveFailed)
		return
	}

	c.JSON(http.StatusCreated, dto.SaveIdeaResponse{ID: id})
}

// List 公开创意列表
// @Summary 公开创意列表
// @Tags Ideas
// @Produce json
// @Param limit query int false "条数"
// @Param offset query int false "偏移"
// @Param tool query string false "按工具过滤"
// @Success 200 {object} dto.IdeaListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := h.store.List(ctx, dto.BindListIdeasQuery(c))
	if err != nil {
		logger.Error(ctx, "failed to list ideas", err)
		dto.InternalError(c, "Failed to list ideas")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaListResponse(ctx, records))
}

// Get 获取公开创意
// @Summary 获取创意详情
// @Tags Ideas
// @Produce json
// @Param id path string true "创意 ID"
// @Success 200 {object} dto.IdeaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	record, err := h.store.Get(ctx, c.Param("id"))
	if err != nil {
		if stderrors.Is(err, errors.ErrIdeaNotFound) {
			dto.NotFound(c, "Idea not found")
			return
		}
		logger.Error(ctx, "failed to get idea", err)
		dto.AppError(c, err, "Failed to load idea")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaResponse(ctx, record))
}

// PopularTools 已保存创意中的热门工具
// @Summary 热门工具
// @Tags Ideas
// @Produce json
// @Param n query int false "返回条数" default(10)
// @Success 200 {object} dto.PopularToolsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ideas/tools/popular [get]
func (h *IdeaHandler) PopularTools(c *gin.Context) {
	ctx := c.Request.Context()

	var q struct {
		N int `form:"n"`
	}
	_ = c.ShouldBindQuery(&q)

	tools, err := h.store.PopularTools(ctx, q.N)
	if err != nil {
		logger.Error(ctx, "failed to load popular tools", err)
		dto.InternalError(c, "Failed to load popular tools")
		return
	}

	c.JSON(http.StatusOK, dto.PopularToolsResponse{Tools: tools})
}
