// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"
	"os"

	"bizprompt-api/internal/application/idea"
	"bizprompt-api/internal/application/quota"
	"bizprompt-api/internal/config"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
	"bizprompt-api/internal/infrastructure/messaging"
	"bizprompt-api/internal/infrastructure/persistence/postgres"
	"bizprompt-api/internal/infrastructure/persistence/redis"
	"bizprompt-api/internal/interfaces/http/handler"
	"bizprompt-api/internal/interfaces/http/router"
	"bizprompt-api/pkg/logger"
)

// App API 网关依赖容器
type App struct {
	Router        *router.Router
	UsageRecorder *quota.LLMUsageRecorder
}

// Worker 后台消费者依赖容器
type Worker struct {
	Consumer  *messaging.Consumer
	ToolStats *idea.ToolStats
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideIdeaRepository 数据库仓储外包一层列表缓存
func ProvideIdeaRepository(pg *postgres.BusinessIdeaRepository, cache *redis.Cache) repository.BusinessIdeaRepository {
	return redis.NewCachedIdeaRepository(pg, cache, 0)
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideIdeaEventPublisher 未启用 Stream 时返回 nil，保存流程不发布事件
func ProvideIdeaEventPublisher(producer *messaging.Producer, cfg *config.Config) service.IdeaEventPublisher {
	if !cfg.Messaging.RedisStream.Enabled {
		return nil
	}
	return producer
}

// ProvideIdeaStore 提供创意存储服务
func ProvideIdeaStore(repo repository.BusinessIdeaRepository, events service.IdeaEventPublisher, ranking *redis.ToolRanking, cfg *config.Config) *idea.Store {
	return idea.NewStore(repo, events, ranking, idea.StoreConfig{
		ListLimit:    cfg.Ideas.ListLimit,
		ListMaxLimit: cfg.Ideas.ListMaxLimit,
	})
}

// ProvideIdeaGenerator 提供创意生成器
func ProvideIdeaGenerator(normalizer *idea.Normalizer, chain idea.IdeaInvoker, cfg *config.Config) *idea.Generator {
	return idea.NewGenerator(normalizer, chain, cfg.IdeaProvider())
}

// ProvideTokenBudget 提供每日 token 预算检查
func ProvideTokenBudget(usageRepo repository.LLMUsageEventRepository, cfg *config.Config) *quota.TokenBudgetChecker {
	return quota.NewTokenBudgetChecker(usageRepo, cfg.Ideas.DailyTokenBudget)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, map[string]handler.HealthChecker{
		"postgres": pg,
		"redis":    redisClient,
	})
}

// ProvideRouterHandlers 汇总路由依赖
func ProvideRouterHandlers(
	health *handler.HealthHandler,
	ideaHandler *handler.IdeaHandler,
	limiter *redis.RateLimiter,
	budget *quota.TokenBudgetChecker,
) router.RouterHandlers {
	return router.RouterHandlers{
		Health:       health,
		Idea:         ideaHandler,
		RateLimiter:  limiter,
		TokenBudget:  budget,
		RateLimitKey: redis.BuildRateLimitKey,
	}
}

// ProvideToolRankingConsumer 提供 idea.saved 消费者
func ProvideToolRankingConsumer(ctx context.Context, redisClient *redis.Client, cfg *config.Config) *messaging.Consumer {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	name := fmt.Sprintf("%s-%d", host, os.Getpid())
	stream := cfg.Messaging.RedisStream
	logger.Info(ctx, "tool ranking consumer configured", "consumer", name)

	return messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamIdeaSaved,
		Group:        messaging.ConsumerGroupToolRanking,
		ConsumerName: name,
		BlockTimeout: stream.BlockTimeout,
		RetryLimit:   stream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    stream.RetryBackoff.Initial,
			Max:        stream.RetryBackoff.Max,
			Multiplier: stream.RetryBackoff.Multiplier,
		},
	})
}
