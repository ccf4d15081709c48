package repository

import (
	"context"

	"bizprompt-api/internal/domain/entity"
)

// BusinessIdeaRepository 创意快照存储
type BusinessIdeaRepository interface {
	Create(ctx context.Context, idea *entity.BusinessIdea) error
	// GetPublicByID 返回公开创意并自增 view_count，不存在时返回 (nil, nil)
	GetPublicByID(ctx context.Context, id string) (*entity.BusinessIdea, error)
	ListPublic(ctx context.Context, opts ListOptions) ([]*entity.BusinessIdea, error)
}
