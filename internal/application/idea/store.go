package idea

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
	wfmodel "bizprompt-api/internal/workflow/model"
	apperrors "bizprompt-api/pkg/errors"
	"bizprompt-api/pkg/logger"
	"bizprompt-api/pkg/metrics"
)

// SaveInput 保存请求
type SaveInput struct {
	Prompt  string
	Idea    wfmodel.GeneratedIdea
	Filters *wfmodel.IdeaFilters
}

// StoreConfig 列表分页参数
type StoreConfig struct {
	ListLimit    int
	ListMaxLimit int
}

// Store 创意持久化服务，保存的快照一律公开
type Store struct {
	repo    repository.BusinessIdeaRepository
	events  service.IdeaEventPublisher
	ranking service.ToolRanking
	cfg     StoreConfig
	now     func() time.Time
}

// NewStore 创建创意存储服务，events 与 ranking 可为空
func NewStore(repo repository.BusinessIdeaRepository, events service.IdeaEventPublisher, ranking service.ToolRanking, cfg StoreConfig) *Store {
	return &Store{
		repo:    repo,
		events:  events,
		ranking: ranking,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Save 写入快照并返回 ID。事件发布失败只记录日志，不影响保存结果。
func (s *Store) Save(ctx context.Context, in SaveInput) (string, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return "", ErrValidation
	}

	ideaJSON, err := json.Marshal(in.Idea)
	if err != nil {
		return "", ErrSaveFailed.WithError(err)
	}

	record := &entity.BusinessIdea{
		ID:            uuid.NewString(),
		Prompt:        in.Prompt,
		GeneratedIdea: datatypes.JSON(ideaJSON),
		Name:          in.Idea.Name,
		ToolsNeeded:   pq.StringArray(in.Idea.ToolsNeeded),
		Difficulty:    in.Idea.Difficulty,
		Category:      in.Idea.Category,
		IsPublic:      true,
	}
	if in.Filters != nil {
		filtersJSON, err := json.Marshal(in.Filters)
		if err != nil {
			return "", ErrSaveFailed.WithError(err)
		}
		record.Filters = datatypes.JSON(filtersJSON)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		metrics.IdeaSavedTotal.WithLabelValues("error").Inc()
		return "", ErrSaveFailed.WithError(err)
	}
	metrics.IdeaSavedTotal.WithLabelValues("success").Inc()

	s.publishSaved(ctx, record)
	return record.ID, nil
}

func (s *Store) publishSaved(ctx context.Context, record *entity.BusinessIdea) {
	if s.events == nil {
		return
	}
	evt := &service.IdeaSavedEvent{
		IdeaID:      record.ID,
		Name:        record.Name,
		Category:    record.Category,
		Difficulty:  record.Difficulty,
		ToolsNeeded: []string(record.ToolsNeeded),
		SavedAt:     s.now().UTC(),
	}
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		evt.RequestID = reqID
	}
	if err := s.events.PublishIdeaSaved(ctx, evt); err != nil {
		logger.Warn(ctx, "failed to publish idea saved event", "idea_id", record.ID, "error", err.Error())
	}
}

// Get 返回公开创意并计一次浏览
func (s *Store) Get(ctx context.Context, id string) (*entity.BusinessIdea, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrIdeaNotFound
	}
	record, err := s.repo.GetPublicByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load idea")
	}
	if record == nil {
		return nil, apperrors.ErrIdeaNotFound
	}
	return record, nil
}

// List 按创建时间倒序返回公开创意
func (s *Store) List(ctx context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error) {
	opts = opts.Normalize(s.cfg.ListLimit, s.cfg.ListMaxLimit)
	opts.Tool = strings.TrimSpace(opts.Tool)

	records, err := s.repo.ListPublic(ctx, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list ideas")
	}
	return records, nil
}

// PopularTools 返回已保存创意中出现最多的工具，未配置统计时返回空列表
func (s *Store) PopularTools(ctx context.Context, n int) ([]service.ToolCount, error) {
	if s.ranking == nil {
		return []service.ToolCount{}, nil
	}
	if n < 1 {
		n = 10
	}
	if limit := s.cfg.ListMaxLimit; limit > 0 && n > limit {
		n = limit
	}
	tools, err := s.ranking.Top(ctx, n)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load popular tools")
	}
	return tools, nil
}
