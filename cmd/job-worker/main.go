// Package main 异步任务执行器入口（job-worker）
// 消费 idea.saved 事件并维护工具热度排行
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bizprompt-api/internal/config"
	"bizprompt-api/internal/domain/service"
	"bizprompt-api/internal/infrastructure/messaging"
	"bizprompt-api/internal/wire"
	"bizprompt-api/pkg/logger"
	"bizprompt-api/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "job-worker",
		Environment: cfg.App.Env,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	worker, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	worker.Consumer.RegisterHandler(messaging.TypeIdeaSaved, func(msgCtx context.Context, msg *messaging.Message) error {
		var evt service.IdeaSavedEvent
		if err := msg.UnmarshalPayload(&evt); err != nil {
			return err
		}
		return worker.ToolStats.RecordSaved(msgCtx, &evt)
	})

	if err := worker.Consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	logger.Info(ctx, "job-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "job-worker shutting down")
	worker.Consumer.Stop()
}
