//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"bizprompt-api/internal/application/idea"
	"bizprompt-api/internal/application/quota"
	"bizprompt-api/internal/config"
	"bizprompt-api/internal/domain/repository"
	"bizprompt-api/internal/domain/service"
	"bizprompt-api/internal/infrastructure/llm"
	"bizprompt-api/internal/infrastructure/persistence/postgres"
	"bizprompt-api/internal/infrastructure/persistence/redis"
	"bizprompt-api/internal/interfaces/http/handler"
	"bizprompt-api/internal/interfaces/http/router"
	"bizprompt-api/internal/workflow/chain"
	"bizprompt-api/internal/workflow/port"
	"bizprompt-api/internal/workflow/prompt"
)

// InitializeApp 初始化 API 网关
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		PostgresSet,
		RedisSet,
		MessagingSet,
		WorkflowSet,
		IdeaSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeWorker 初始化后台消费者（仅依赖 Redis）
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		ProvideRedisClient,
		redis.NewToolRanking,
		wire.Bind(new(service.ToolRanking), new(*redis.ToolRanking)),
		idea.NewToolStats,
		ProvideToolRankingConsumer,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	wire.Build(ProvidePostgresClient)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewBusinessIdeaRepository,
	postgres.NewLLMUsageEventRepository,
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	redis.NewToolRanking,
	ProvideIdeaRepository,
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideIdeaEventPublisher,
)

// WorkflowSet 模型调用链提供者集合
var WorkflowSet = wire.NewSet(
	prompt.NewRegistry,
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewIdeaChain,
	wire.Bind(new(idea.IdeaInvoker), new(*chain.IdeaChain)),
)

// IdeaSet 创意业务提供者集合
var IdeaSet = wire.NewSet(
	idea.NewNormalizer,
	ProvideIdeaGenerator,
	ProvideIdeaStore,
	quota.NewLLMUsageRecorder,
	ProvideTokenBudget,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewIdeaHandler,
	wire.Bind(new(handler.IdeaGenerator), new(*idea.Generator)),
	wire.Bind(new(handler.IdeaStore), new(*idea.Store)),
	ProvideRouterHandlers,
	router.New,
)
