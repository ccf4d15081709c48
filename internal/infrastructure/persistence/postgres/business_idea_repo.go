package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizprompt-api/internal/domain/entity"
	"bizprompt-api/internal/domain/repository"
)

// BusinessIdeaRepository 创意快照仓储
type BusinessIdeaRepository struct {
	client *Client
	tx     *TxManager
}

// NewBusinessIdeaRepository 创建创意快照仓储
func NewBusinessIdeaRepository(client *Client) *BusinessIdeaRepository {
	return &BusinessIdeaRepository{client: client, tx: NewTxManager(client)}
}

// Create 保存创意快照
func (r *BusinessIdeaRepository) Create(ctx context.Context, idea *entity.BusinessIdea) error {
	ctx, span := tracer.Start(ctx, "postgres.BusinessIdeaRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(idea).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create business idea: %w", err)
	}
	return nil
}

// GetPublicByID 读取公开创意，同一事务内自增浏览次数
func (r *BusinessIdeaRepository) GetPublicByID(ctx context.Context, id string) (*entity.BusinessIdea, error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessIdeaRepository.GetPublicByID")
	defer span.End()

	var idea entity.BusinessIdea
	found := true
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.client.db)

		res := db.Model(&entity.BusinessIdea{}).
			Where("id = ? AND is_public = ?", id, true).
			UpdateColumn("view_count", gorm.Expr("view_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			found = false
			return nil
		}
		return db.Where("id = ?", id).First(&idea).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get business idea: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &idea, nil
}

// ListPublic 按创建时间倒序列出公开创意
func (r *BusinessIdeaRepository) ListPublic(ctx context.Context, opts repository.ListOptions) ([]*entity.BusinessIdea, error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessIdeaRepository.ListPublic")
	defer span.End()

	var ideas []*entity.BusinessIdea
	if err := publicIdeasQuery(getDB(ctx, r.client.db), opts).Find(&ideas).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list business ideas: %w", err)
	}
	return ideas, nil
}

// publicIdeasQuery 工具名按大小写不敏感匹配，与排行中的小写工具名一致
func publicIdeasQuery(db *gorm.DB, opts repository.ListOptions) *gorm.DB {
	q := db.Where("is_public = ?", true)
	if opts.Tool != "" {
		q = q.Where("EXISTS (SELECT 1 FROM unnest(tools_needed) AS t WHERE lower(t) = lower(?))", opts.Tool)
	}
	return q.Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset)
}
