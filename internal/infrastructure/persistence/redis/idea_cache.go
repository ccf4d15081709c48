package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/pkg/logger"
)

const (
	ideaListKeyPrefix = "ideas:public:"
	defaultListTTL    = 30 * time.Second
)

// CachedIdeaRepository 为公开列表加一层短 TTL 缓存，写入时整体失效
type CachedIdeaRepository struct {
	next  repository.BusinessIdeaRepository
	cache *Cache
	ttl   time.Duration
}

// NewCachedIdeaRepository 包装底层仓储
func NewCachedIdeaRepository(next repository.BusinessIdeaRepository, cache *Cache, ttl time.Duration) *CachedIdeaRepository {
	if ttl <= 0 {
		ttl = defaultListTTL
	}
	return &CachedIdeaRepository{next: next, cache: cache, ttl: ttl}
}

func (r *CachedIdeaRepository) Create(ctx context.Context, idea *entity.BusinessIdea) error {
	if err := r.next.Create(ctx, idea); err != nil {
		return err
	}
	if err := r.cache.InvalidatePattern(ctx, ideaListKeyPrefix+"*"); err != nil {
		logger.Warn(ctx, "failed to invalidate idea list cache", "error", err.Error())
	}
	return nil
}

// GetPublicByID 每次都会更新浏览数，不走缓存
func (r *CachedIdeaRepository) GetPublicByID(ctx context.Context, id string) (*entity.BusinessIdea, error) {
	return r.next.GetPublicByID(ctx, id)
}

func (r *CachedIdeaRepository) ListPublic(ctx context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error) {
	raw, err := r.cache.GetOrLoad(ctx, ideaListKey(opts), r.ttl, func(ctx context.Context) (any, error) {
		return r.next.ListPublic(ctx, opts)
	})
	if err != nil {
		logger.Warn(ctx, "idea list cache unavailable, reading from database", "error", err.Error())
		return r.next.ListPublic(ctx, opts)
	}

	var out []*entity.BusinessIdea
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode cached idea list: %w", err)
	}
	if out == nil {
		out = []*entity.BusinessIdea{}
	}
	return out, nil
}

// ideaListKey 保留工具名原始大小写，缓存不对底层查询的匹配规则做假设
func ideaListKey(opts repository.ListOptions) string {
	return fmt.Sprintf("%s%d:%d:%s", ideaListKeyPrefix, opts.Limit, opts.Offset, url.QueryEscape(opts.Tool))
}
